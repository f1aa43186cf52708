package ai

import (
	"context"

	"github.com/bryanwahyu/sentinel-review/internal/domain/review"
)

// Source is exactly one image input: a fetchable URL or raw bytes.
// MIMEType applies to raw bytes only.
type Source struct {
	URL      string
	Data     []byte
	MIMEType string
}

// Client is the port to the remote generative model. Every call is a single
// blocking request with no retries; failures are wrapped in ErrUpstream or
// ErrQuotaExceeded by the implementation.
type Client interface {
	// AnalyzeVideo reviews a video by URI with a timestamped-issue prompt.
	AnalyzeVideo(ctx context.Context, videoURL, mimeType string, frameRate float64, model string) (review.RawAnalysis, error)

	// AnalyzeImage reviews an image including spatial locations.
	AnalyzeImage(ctx context.Context, src Source, model string) (review.RawAnalysis, error)

	// AnalyzeImageInitial reviews an image without requesting locations
	// (phase 1 of the two-step flow). Always legacy text output.
	AnalyzeImageInitial(ctx context.Context, src Source, model string) (review.RawAnalysis, error)

	// LocateIssue asks for a single {"x":..,"y":..} object for one
	// previously identified issue (phase 2). Always legacy text output.
	LocateIssue(ctx context.Context, src Source, description, issueContext, model string) (review.RawAnalysis, error)
}
