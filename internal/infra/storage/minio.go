package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the managed media bucket used in managed-storage mode: staged
// uploads for analysis plus the list/delete/stream endpoints.
type Store struct {
	client *minio.Client
	bucket string
	region string
	folder string
}

// Item describes one stored media object.
type Item struct {
	Key         string    `json:"-"`
	Name        string    `json:"name"`
	URI         string    `json:"uri"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Created     time.Time `json:"created"`
}

// New connects to the bucket and creates it if missing.
func New(ctx context.Context, endpoint, region, bucket, folder, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucket: bucket, region: region, folder: strings.Trim(folder, "/")}, nil
}

// Healthy reports whether the bucket is reachable.
func (s *Store) Healthy(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

// objectKey places a name under the configured media folder.
func (s *Store) objectKey(name string) string {
	if s.folder == "" {
		return name
	}
	return s.folder + "/" + name
}

func (s *Store) uri(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

func proxyURL(key string) string {
	return "/api/v1/storage/file/" + key
}

// UploadBytes stores raw bytes under {folder}/{name} and returns the item.
func (s *Store) UploadBytes(ctx context.Context, name string, data []byte, contentType string) (Item, error) {
	return s.UploadStream(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
}

// UploadStream stores a reader under {folder}/{name}.
func (s *Store) UploadStream(ctx context.Context, name string, r io.Reader, size int64, contentType string) (Item, error) {
	key := s.objectKey(name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Item{}, fmt.Errorf("upload %s: %w", key, err)
	}
	created := info.LastModified
	if created.IsZero() {
		created = time.Now()
	}
	return Item{
		Key:         key,
		Name:        name,
		URI:         s.uri(key),
		URL:         proxyURL(key),
		ContentType: contentType,
		Created:     created,
	}, nil
}

// List returns image and video objects under the media folder, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	prefix := s.folder
	if prefix != "" {
		prefix += "/"
	}

	items := []Item{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		contentType := obj.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(path.Ext(obj.Key))
		}
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			continue
		}
		items = append(items, Item{
			Key:         obj.Key,
			Name:        path.Base(obj.Key),
			URI:         s.uri(obj.Key),
			URL:         proxyURL(obj.Key),
			ContentType: contentType,
			Created:     obj.LastModified,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Created.After(items[j].Created) })
	return items, nil
}

// Stat returns object metadata; minio reports a NoSuchKey error response for
// missing objects, which callers detect with IsNotFound.
func (s *Store) Stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	return s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
}

// IsNotFound reports whether err is a missing-object error from the bucket.
func IsNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

// Delete removes an object by its full key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.Stat(ctx, key); err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Stream opens the object for reading, optionally restricted to the byte
// range [start, end] (inclusive) for HTTP Range proxying.
func (s *Store) Stream(ctx context.Context, key string, start, end int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if start >= 0 && end >= start {
		if err := opts.SetRange(start, end); err != nil {
			return nil, err
		}
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// PresignedGet returns a time-limited HTTPS URL for an object, used to hand
// staged uploads to the model as a fetchable URI.
func (s *Store) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
