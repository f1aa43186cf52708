package gemini

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/google/uuid"
	genai "google.golang.org/genai"

	"github.com/bryanwahyu/sentinel-review/internal/infra/storage"
)

// Stager turns raw uploaded bytes into a URI the model can fetch. The
// variant is chosen once at construction: managed-storage deployments stage
// through the media bucket, everything else goes to the model's transient
// file store.
type Stager interface {
	Stage(ctx context.Context, data []byte, mimeType string) (uri string, err error)
}

// FilesStager uploads bytes to the model provider's transient file store.
type FilesStager struct {
	cli *genai.Client
}

func NewFilesStager(cli *genai.Client) *FilesStager {
	return &FilesStager{cli: cli}
}

func (s *FilesStager) Stage(ctx context.Context, data []byte, mimeType string) (string, error) {
	f, err := s.cli.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("file store upload: %w", err)
	}
	return f.URI, nil
}

// BucketStager stages bytes in the managed media bucket and hands the model
// a short-lived presigned URL.
type BucketStager struct {
	store  *storage.Store
	expiry time.Duration
}

func NewBucketStager(store *storage.Store) *BucketStager {
	return &BucketStager{store: store, expiry: 15 * time.Minute}
}

func (s *BucketStager) Stage(ctx context.Context, data []byte, mimeType string) (string, error) {
	name := uuid.New().String() + extensionFor(mimeType)
	item, err := s.store.UploadBytes(ctx, name, data, mimeType)
	if err != nil {
		return "", err
	}
	// The model fetches over HTTPS; item.URI is only the canonical record.
	return s.store.PresignedGet(ctx, item.Key, s.expiry)
}

func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
