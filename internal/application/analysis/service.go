package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/sentinel-review/internal/domain/ai"
	"github.com/bryanwahyu/sentinel-review/internal/domain/review"
	"github.com/bryanwahyu/sentinel-review/internal/domain/uploads"
)

// Speed selects the model tier.
type Speed string

const (
	SpeedFast     Speed = "fast"
	SpeedPowerful Speed = "powerful"
)

// Clock abstraction so completion timestamps are testable
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service implements the analysis use-cases. It holds no per-request state
// and is safe for concurrent use; the upload store is the only shared state.
type Service struct {
	AI            ai.Client
	Uploads       uploads.Store
	Clock         Clock
	FastModel     string
	PowerfulModel string
}

// AnalyzeCommand carries exactly one content source.
type AnalyzeCommand struct {
	VideoURL  string
	ImageURL  string
	ImageData []byte
	ImageMIME string
	FrameRate float64
	Speed     Speed
}

func (s *Service) modelFor(speed Speed) string {
	if speed == SpeedPowerful {
		return s.PowerfulModel
	}
	return s.FastModel
}

// videoMIME derives a MIME type from the file extension of object-store
// style paths; everything else defaults to video/mp4.
func videoMIME(videoURL string) string {
	if !strings.HasPrefix(videoURL, "gs://") {
		return "video/mp4"
	}
	ext := strings.ToLower(videoURL[strings.LastIndex(videoURL, ".")+1:])
	switch ext {
	case "mp4", "mpeg", "avi", "wmv", "mpg":
		return "video/" + ext
	case "mov":
		return "video/quicktime"
	default:
		return "video/mp4"
	}
}

// Analyze reviews exactly one of video URL, image URL, or raw image bytes
// and returns the assembled result.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*review.AnalysisResult, error) {
	inputs := 0
	for _, present := range []bool{cmd.VideoURL != "", cmd.ImageURL != "", len(cmd.ImageData) > 0} {
		if present {
			inputs++
		}
	}
	if inputs == 0 {
		return nil, review.ErrNoInput
	}
	if inputs > 1 {
		return nil, review.ErrAmbiguousInput
	}

	model := s.modelFor(cmd.Speed)

	var (
		raw        review.RawAnalysis
		err        error
		contentID  string
		contentURL string
	)
	switch {
	case cmd.VideoURL != "":
		slog.Info("starting video analysis", "url", cmd.VideoURL, "model", model)
		raw, err = s.AI.AnalyzeVideo(ctx, cmd.VideoURL, videoMIME(cmd.VideoURL), cmd.FrameRate, model)
		contentURL = cmd.VideoURL
		var ok bool
		contentID, ok = review.ExtractVideoID(cmd.VideoURL)
		if !ok {
			slog.Warn("could not extract video id, using URL verbatim", "url", cmd.VideoURL)
		}
	case cmd.ImageURL != "":
		slog.Info("starting image analysis", "url", cmd.ImageURL, "model", model)
		raw, err = s.AI.AnalyzeImage(ctx, ai.Source{URL: cmd.ImageURL}, model)
		contentURL = cmd.ImageURL
		contentID = review.ImageContentID(cmd.ImageURL)
	default:
		slog.Info("starting uploaded image analysis", "bytes", len(cmd.ImageData), "model", model)
		raw, err = s.AI.AnalyzeImage(ctx, ai.Source{Data: cmd.ImageData, MIMEType: cmd.ImageMIME}, model)
		contentURL = review.UploadedImageID
		contentID = review.UploadedImageID
	}
	if err != nil {
		return nil, err
	}

	issues, explicitSummary, err := review.ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	summary := explicitSummary
	if summary == "" {
		summary = review.Summarize(issues)
	}

	result := review.NewAnalysisResult(contentID, contentURL, s.Clock.Now(), issues, summary)
	slog.Info("analysis complete", "content_id", contentID, "issues", result.TotalIssues)
	return result, nil
}

// AnalyzeInitial is phase 1 of the two-step flow: cache the uploaded bytes
// under a fresh id, review without locations, and hand out composite issue
// ids for later locate calls.
func (s *Service) AnalyzeInitial(ctx context.Context, data []byte, mimeType string, speed Speed) (*review.InitialAnalysisResult, error) {
	if len(data) == 0 {
		return nil, review.ErrNoInput
	}

	uploadID := uuid.New().String()
	s.Uploads.Put(uploadID, data)
	slog.Info("cached upload for locate flow", "upload_id", uploadID, "bytes", len(data))

	raw, err := s.AI.AnalyzeImageInitial(ctx, ai.Source{Data: data, MIMEType: mimeType}, s.modelFor(speed))
	if err != nil {
		return nil, err
	}

	issues, _, err := review.ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}

	identified := make([]review.IdentifiedIssue, 0, len(issues))
	for i, issue := range issues {
		identified = append(identified, review.IdentifiedIssue{
			IssueID:        fmt.Sprintf("%s_%d", uploadID, i),
			StartTimestamp: issue.StartTimestamp,
			EndTimestamp:   issue.EndTimestamp,
			Severity:       issue.Severity,
			Category:       issue.Category,
			Description:    issue.Description,
			Context:        issue.Context,
		})
	}

	result := review.NewInitialAnalysisResult(
		uploadID,
		"uploaded_image_"+uploadID,
		s.Clock.Now(),
		identified,
		review.Summarize(issues),
	)
	slog.Info("initial analysis complete", "upload_id", uploadID, "issues", result.TotalIssues)
	return result, nil
}

// jsonObjectPattern finds the first brace-delimited object anywhere in the
// reply, tolerating prose around the requested bare JSON.
var jsonObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// LocateIssue is phase 2: recover the cached bytes for the issue's upload id
// (or fall back to a caller-supplied image URL) and ask the model for the
// issue's normalized coordinates.
func (s *Service) LocateIssue(ctx context.Context, issueID, description, fallbackURL string) (*review.IssueLocation, error) {
	// Composite ids are "{uploadID}_{index}".
	cut := strings.LastIndex(issueID, "_")
	if cut <= 0 {
		return nil, fmt.Errorf("%w: malformed issue id %q", review.ErrUploadNotFound, issueID)
	}
	uploadID := issueID[:cut]

	src := ai.Source{}
	if data, ok := s.Uploads.Get(uploadID); ok {
		src.Data = data
		src.MIMEType = "image/jpeg"
	} else if fallbackURL != "" {
		src.URL = fallbackURL
	} else {
		return nil, fmt.Errorf("%w: upload id %s", review.ErrUploadNotFound, uploadID)
	}

	raw, err := s.AI.LocateIssue(ctx, src, description, "", s.FastModel)
	if err != nil {
		return nil, err
	}

	match := jsonObjectPattern.FindString(raw.Text)
	if match == "" {
		return nil, fmt.Errorf("%w: no JSON object in locate response", review.ErrMalformedResponse)
	}
	var payload struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrMalformedResponse, err)
	}
	if payload.X == nil || payload.Y == nil {
		return nil, fmt.Errorf("%w: locate response missing x or y", review.ErrMalformedResponse)
	}
	loc, err := review.NewLocation(*payload.X, *payload.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrMalformedResponse, err)
	}

	slog.Info("located issue", "issue_id", issueID, "x", loc.X, "y", loc.Y)
	return &review.IssueLocation{IssueID: issueID, Location: loc}, nil
}
