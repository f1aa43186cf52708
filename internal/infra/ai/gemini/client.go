package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	genai "google.golang.org/genai"

	"github.com/bryanwahyu/sentinel-review/internal/domain/ai"
	"github.com/bryanwahyu/sentinel-review/internal/domain/review"
	"github.com/bryanwahyu/sentinel-review/internal/infra/ai/prompt"
)

// Client is a thin wrapper around the official genai client implementing the
// ai.Client port. The model name is chosen per call; temperature and the
// structured/legacy output shape are fixed at construction.
type Client struct {
	cli         *genai.Client
	temperature float32
	structured  bool
	stager      Stager
}

// New builds the client. structured controls whether full analysis calls
// request the response schema; the two-step flow always uses legacy text.
// If stager is nil, raw bytes go to the provider's transient file store.
func New(ctx context.Context, apiKey string, temperature float64, structured bool, stager Stager) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		cli:         cli,
		temperature: float32(temperature),
		structured:  structured,
		stager:      stager,
	}
	if c.stager == nil {
		c.stager = NewFilesStager(cli)
	}
	return c, nil
}

// analysisSchema mirrors {issues: [...], summary?} for structured mode.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"issues": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start_timestamp": {Type: genai.TypeString},
					"end_timestamp":   {Type: genai.TypeString},
					"severity": {
						Type: genai.TypeString,
						Enum: []string{"low", "medium", "high", "critical"},
					},
					"category": {
						Type: genai.TypeString,
						Enum: []string{
							"medical_accuracy", "citation_missing", "misleading_claim",
							"outdated_information", "unverified_statement", "contraindication",
							"dosage_concern", "presentation_style", "wording_concern",
							"visual_quality", "audio_quality", "accessibility",
							"professionalism", "other",
						},
					},
					"description": {Type: genai.TypeString},
					"context":     {Type: genai.TypeString},
					"location": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"x": {Type: genai.TypeNumber},
							"y": {Type: genai.TypeNumber},
						},
						Required: []string{"x", "y"},
					},
				},
				Required: []string{"start_timestamp", "end_timestamp", "severity", "category", "description"},
			},
		},
		"summary": {Type: genai.TypeString},
	},
	Required: []string{"issues"},
}

func (c *Client) AnalyzeVideo(ctx context.Context, videoURL, mimeType string, frameRate float64, model string) (review.RawAnalysis, error) {
	slog.Info("analyzing video", "url", videoURL, "frame_rate", frameRate, "model", model)

	parts := []*genai.Part{
		{
			FileData:      &genai.FileData{FileURI: videoURL, MIMEType: mimeType},
			VideoMetadata: &genai.VideoMetadata{FPS: genai.Ptr(frameRate)},
		},
		{Text: prompt.VideoAnalysis},
	}

	var schema *genai.Schema
	if c.structured {
		schema = analysisSchema
	}
	text, err := c.generate(ctx, model, parts, schema)
	if err != nil {
		return review.RawAnalysis{}, err
	}
	return review.RawAnalysis{Text: text, Structured: c.structured}, nil
}

func (c *Client) AnalyzeImage(ctx context.Context, src ai.Source, model string) (review.RawAnalysis, error) {
	var schema *genai.Schema
	if c.structured {
		schema = analysisSchema
	}
	text, err := c.analyzeImageWithPrompt(ctx, src, prompt.ImageAnalysisSingleStep, model, schema)
	if err != nil {
		return review.RawAnalysis{}, err
	}
	return review.RawAnalysis{Text: text, Structured: c.structured}, nil
}

func (c *Client) AnalyzeImageInitial(ctx context.Context, src ai.Source, model string) (review.RawAnalysis, error) {
	text, err := c.analyzeImageWithPrompt(ctx, src, prompt.ImageAnalysisWithoutLocation, model, nil)
	if err != nil {
		return review.RawAnalysis{}, err
	}
	return review.RawAnalysis{Text: text}, nil
}

func (c *Client) LocateIssue(ctx context.Context, src ai.Source, description, issueContext, model string) (review.RawAnalysis, error) {
	text, err := c.analyzeImageWithPrompt(ctx, src, prompt.FindIssueLocation(description, issueContext), model, nil)
	if err != nil {
		return review.RawAnalysis{}, err
	}
	return review.RawAnalysis{Text: text}, nil
}

func (c *Client) analyzeImageWithPrompt(ctx context.Context, src ai.Source, promptText, model string, schema *genai.Schema) (string, error) {
	uri := src.URL
	mimeType := src.MIMEType

	if len(src.Data) > 0 {
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		staged, err := c.stager.Stage(ctx, src.Data, mimeType)
		if err != nil {
			return "", fmt.Errorf("%w: staging image: %v", ai.ErrUpstream, err)
		}
		uri = staged
		slog.Info("staged uploaded image", "model", model)
	}
	if uri == "" {
		return "", fmt.Errorf("%w: image source has neither URL nor data", ai.ErrUpstream)
	}

	parts := []*genai.Part{
		{FileData: &genai.FileData{FileURI: uri, MIMEType: mimeType}},
		{Text: promptText},
	}
	return c.generate(ctx, model, parts, schema)
}

// generate performs one blocking GenerateContent call. No retries: a single
// failure propagates to the caller.
func (c *Client) generate(ctx context.Context, model string, parts []*genai.Part, schema *genai.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	resp, err := c.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: parts}},
		cfg,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %v", ai.ErrUpstream, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty model response", ai.ErrUpstream)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
