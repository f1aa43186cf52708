package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/sentinel-review/internal/domain/ai"
	"github.com/bryanwahyu/sentinel-review/internal/domain/review"
	"github.com/bryanwahyu/sentinel-review/internal/infra/uploadcache"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeAI records the last call and replies with canned text per method.
type fakeAI struct {
	videoReply  review.RawAnalysis
	imageReply  review.RawAnalysis
	initReply   review.RawAnalysis
	locateReply review.RawAnalysis
	err         error

	lastModel     string
	lastVideoURL  string
	lastMIME      string
	lastFrameRate float64
	lastSource    ai.Source
	lastDesc      string
}

func (f *fakeAI) AnalyzeVideo(ctx context.Context, videoURL, mimeType string, frameRate float64, model string) (review.RawAnalysis, error) {
	f.lastModel, f.lastVideoURL, f.lastMIME, f.lastFrameRate = model, videoURL, mimeType, frameRate
	return f.videoReply, f.err
}

func (f *fakeAI) AnalyzeImage(ctx context.Context, src ai.Source, model string) (review.RawAnalysis, error) {
	f.lastModel, f.lastSource = model, src
	return f.imageReply, f.err
}

func (f *fakeAI) AnalyzeImageInitial(ctx context.Context, src ai.Source, model string) (review.RawAnalysis, error) {
	f.lastModel, f.lastSource = model, src
	return f.initReply, f.err
}

func (f *fakeAI) LocateIssue(ctx context.Context, src ai.Source, description, issueContext, model string) (review.RawAnalysis, error) {
	f.lastModel, f.lastSource, f.lastDesc = model, src, description
	return f.locateReply, f.err
}

func newService(fake *fakeAI) *Service {
	return &Service{
		AI:            fake,
		Uploads:       uploadcache.NewMemory(),
		Clock:         fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		FastModel:     "model-fast",
		PowerfulModel: "model-powerful",
	}
}

const legacyReply = `ISSUE:
Start: 00:10
End: 00:20
Severity: high
Category: medical_accuracy
Description: The stated recovery time contradicts published guidance.`

func TestAnalyze_InputValidation(t *testing.T) {
	svc := newService(&fakeAI{})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{})
	assert.ErrorIs(t, err, review.ErrNoInput)

	_, err = svc.Analyze(context.Background(), AnalyzeCommand{
		VideoURL: "https://youtu.be/abc",
		ImageURL: "https://example.com/x.png",
	})
	assert.ErrorIs(t, err, review.ErrAmbiguousInput)

	_, err = svc.Analyze(context.Background(), AnalyzeCommand{
		ImageURL:  "https://example.com/x.png",
		ImageData: []byte{1, 2, 3},
	})
	assert.ErrorIs(t, err, review.ErrAmbiguousInput)
}

func TestAnalyze_Video(t *testing.T) {
	fake := &fakeAI{videoReply: review.RawAnalysis{Text: legacyReply}}
	svc := newService(fake)

	result, err := svc.Analyze(context.Background(), AnalyzeCommand{
		VideoURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		FrameRate: 2.0,
		Speed:     SpeedPowerful,
	})
	require.NoError(t, err)

	assert.Equal(t, "model-powerful", fake.lastModel)
	assert.Equal(t, "video/mp4", fake.lastMIME)
	assert.Equal(t, 2.0, fake.lastFrameRate)

	assert.Equal(t, "dQw4w9WgXcQ", result.ContentID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", result.ContentURL)
	assert.Equal(t, 1, result.TotalIssues)
	assert.Equal(t, svc.Clock.Now(), result.AnalyzedAt)
}

func TestAnalyze_VideoMIMEFromBucketPath(t *testing.T) {
	fake := &fakeAI{videoReply: review.RawAnalysis{Text: "NO ISSUES FOUND"}}
	svc := newService(fake)

	result, err := svc.Analyze(context.Background(), AnalyzeCommand{
		VideoURL: "gs://bucket/tour.mov",
	})
	require.NoError(t, err)
	assert.Equal(t, "video/quicktime", fake.lastMIME)
	assert.Equal(t, "tour.mov", result.ContentID)
	assert.Equal(t, 0, result.TotalIssues)
}

func TestAnalyze_ImageURL(t *testing.T) {
	fake := &fakeAI{imageReply: review.RawAnalysis{Text: legacyReply}}
	svc := newService(fake)

	result, err := svc.Analyze(context.Background(), AnalyzeCommand{
		ImageURL: "https://cdn.example.com/posters/dosage-chart.png?v=2",
	})
	require.NoError(t, err)

	assert.Equal(t, "model-fast", fake.lastModel, "default speed is fast")
	assert.Equal(t, "https://cdn.example.com/posters/dosage-chart.png?v=2", fake.lastSource.URL)
	assert.Equal(t, "dosage-chart.png", result.ContentID)
}

func TestAnalyze_ImageData(t *testing.T) {
	fake := &fakeAI{imageReply: review.RawAnalysis{Text: legacyReply}}
	svc := newService(fake)

	result, err := svc.Analyze(context.Background(), AnalyzeCommand{
		ImageData: []byte("png-bytes"),
		ImageMIME: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), fake.lastSource.Data)
	assert.Equal(t, "image/png", fake.lastSource.MIMEType)
	assert.Equal(t, review.UploadedImageID, result.ContentID)
	assert.Equal(t, review.UploadedImageID, result.ContentURL)
}

func TestAnalyze_ExplicitSummaryWins(t *testing.T) {
	fake := &fakeAI{imageReply: review.RawAnalysis{
		Text:       `{"issues": [], "summary": "Model-written summary."}`,
		Structured: true,
	}}
	svc := newService(fake)

	result, err := svc.Analyze(context.Background(), AnalyzeCommand{
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Model-written summary.", result.Summary)
}

func TestAnalyze_UpstreamErrorPropagates(t *testing.T) {
	upstream := fmt.Errorf("%w: boom", ai.ErrUpstream)
	svc := newService(&fakeAI{err: upstream})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		ImageURL: "https://example.com/a.png",
	})
	assert.ErrorIs(t, err, ai.ErrUpstream)
}

func TestAnalyzeInitial(t *testing.T) {
	fake := &fakeAI{initReply: review.RawAnalysis{Text: `ISSUE:
Start: N/A
Severity: high
Description: The poster claims this supplement cures the listed condition.
ISSUE:
Start: N/A
Severity: low
Description: The cited study year is missing from the reference line.`}}
	svc := newService(fake)

	result, err := svc.AnalyzeInitial(context.Background(), []byte("img"), "image/jpeg", SpeedFast)
	require.NoError(t, err)

	require.Len(t, result.Issues, 2)
	uploadID := result.ContentID
	assert.Equal(t, uploadID+"_0", result.Issues[0].IssueID)
	assert.Equal(t, uploadID+"_1", result.Issues[1].IssueID)
	assert.Equal(t, "uploaded_image_"+uploadID, result.ContentURL)
	assert.Equal(t, 2, result.TotalIssues)

	cached, ok := svc.Uploads.Get(uploadID)
	require.True(t, ok, "upload bytes must be cached for the locate phase")
	assert.Equal(t, []byte("img"), cached)
}

func TestAnalyzeInitial_EmptyData(t *testing.T) {
	svc := newService(&fakeAI{})
	_, err := svc.AnalyzeInitial(context.Background(), nil, "image/jpeg", SpeedFast)
	assert.ErrorIs(t, err, review.ErrNoInput)
}

func TestLocateIssue_FromCache(t *testing.T) {
	fake := &fakeAI{locateReply: review.RawAnalysis{Text: `{"x": 0.4, "y": 0.6}`}}
	svc := newService(fake)
	svc.Uploads.Put("u1", []byte("img"))

	loc, err := svc.LocateIssue(context.Background(), "u1_0", "the misleading dosage table", "")
	require.NoError(t, err)

	assert.Equal(t, "u1_0", loc.IssueID)
	assert.Equal(t, 0.4, loc.Location.X)
	assert.Equal(t, 0.6, loc.Location.Y)
	assert.Equal(t, []byte("img"), fake.lastSource.Data)
	assert.Equal(t, "model-fast", fake.lastModel, "locate always uses the fast model")
}

func TestLocateIssue_ProseAroundJSON(t *testing.T) {
	fake := &fakeAI{locateReply: review.RawAnalysis{Text: `The issue is here: {"x": 0.1, "y": 0.9} as requested.`}}
	svc := newService(fake)
	svc.Uploads.Put("u1", []byte("img"))

	loc, err := svc.LocateIssue(context.Background(), "u1_3", "desc", "")
	require.NoError(t, err)
	assert.Equal(t, 0.1, loc.Location.X)
}

func TestLocateIssue_FallbackURL(t *testing.T) {
	fake := &fakeAI{locateReply: review.RawAnalysis{Text: `{"x": 0.5, "y": 0.5}`}}
	svc := newService(fake)

	_, err := svc.LocateIssue(context.Background(), "expired_1", "desc", "https://example.com/cached.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cached.png", fake.lastSource.URL)
	assert.Empty(t, fake.lastSource.Data)
}

func TestLocateIssue_NotFound(t *testing.T) {
	svc := newService(&fakeAI{})

	_, err := svc.LocateIssue(context.Background(), "missing_0", "desc", "")
	assert.ErrorIs(t, err, review.ErrUploadNotFound)

	_, err = svc.LocateIssue(context.Background(), "noindexhere", "desc", "")
	assert.ErrorIs(t, err, review.ErrUploadNotFound)
}

func TestLocateIssue_MalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "I could not find the issue"},
		{"missing y", `{"x": 0.5}`},
		{"out of range", `{"x": 1.5, "y": 0.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAI{locateReply: review.RawAnalysis{Text: tt.reply}}
			svc := newService(fake)
			svc.Uploads.Put("u1", []byte("img"))

			_, err := svc.LocateIssue(context.Background(), "u1_0", "desc", "")
			assert.ErrorIs(t, err, review.ErrMalformedResponse)
		})
	}
}

func TestLocateIssue_UpstreamError(t *testing.T) {
	svc := newService(&fakeAI{err: fmt.Errorf("%w: rate limited", ai.ErrQuotaExceeded)})
	svc.Uploads.Put("u1", []byte("img"))

	_, err := svc.LocateIssue(context.Background(), "u1_0", "desc", "")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}
