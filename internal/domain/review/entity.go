package review

import (
	"fmt"
	"strings"
	"time"
)

// Severity enum, ordered from least to most severe
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severitiesDesc is the reporting order for summaries (most severe first)
var severitiesDesc = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// SeverityFromText matches free text against the severity values. The most
// severe value found wins; unrecognized text falls back to medium.
func SeverityFromText(text string) Severity {
	lower := strings.ToLower(text)
	for _, s := range severitiesDesc {
		if strings.Contains(lower, string(s)) {
			return s
		}
	}
	return SeverityMedium
}

// IssueCategory enum
type IssueCategory string

const (
	CategoryMedicalAccuracy     IssueCategory = "medical_accuracy"
	CategoryCitationMissing     IssueCategory = "citation_missing"
	CategoryMisleadingClaim     IssueCategory = "misleading_claim"
	CategoryOutdatedInformation IssueCategory = "outdated_information"
	CategoryUnverifiedStatement IssueCategory = "unverified_statement"
	CategoryContraindication    IssueCategory = "contraindication"
	CategoryDosageConcern       IssueCategory = "dosage_concern"
	CategoryPresentationStyle   IssueCategory = "presentation_style"
	CategoryWordingConcern      IssueCategory = "wording_concern"
	CategoryVisualQuality       IssueCategory = "visual_quality"
	CategoryAudioQuality        IssueCategory = "audio_quality"
	CategoryAccessibility       IssueCategory = "accessibility"
	CategoryProfessionalism     IssueCategory = "professionalism"
	CategoryOther               IssueCategory = "other"
)

var categories = []IssueCategory{
	CategoryMedicalAccuracy,
	CategoryCitationMissing,
	CategoryMisleadingClaim,
	CategoryOutdatedInformation,
	CategoryUnverifiedStatement,
	CategoryContraindication,
	CategoryDosageConcern,
	CategoryPresentationStyle,
	CategoryWordingConcern,
	CategoryVisualQuality,
	CategoryAudioQuality,
	CategoryAccessibility,
	CategoryProfessionalism,
	CategoryOther,
}

// CategoryFromText matches free text against the category values by substring
// containment, case-insensitive, spaces folded to underscores. First match in
// declaration order wins; no match falls back to CategoryOther.
func CategoryFromText(text string) IssueCategory {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "_")
	for _, c := range categories {
		if strings.Contains(normalized, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Location is a point in an image in normalized coordinates:
// (0,0) is top-left, (1,1) is bottom-right.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewLocation rejects coordinates outside [0,1]; values are never clamped.
func NewLocation(x, y float64) (Location, error) {
	if x < 0.0 || x > 1.0 {
		return Location{}, fmt.Errorf("location x out of range [0,1]: %v", x)
	}
	if y < 0.0 || y > 1.0 {
		return Location{}, fmt.Errorf("location y out of range [0,1]: %v", y)
	}
	return Location{X: x, Y: y}, nil
}

// MinDescriptionLength is the shortest description accepted from the model.
// Shorter text is replaced with a placeholder embedding the start timestamp.
const MinDescriptionLength = 10

// TimestampNA marks static-image issues that have no time range.
const TimestampNA = "N/A"

// Issue is a single flagged concern in the analyzed content. Instances are
// produced only by the response parsers, never from caller input.
type Issue struct {
	StartTimestamp string        `json:"start_timestamp"`
	EndTimestamp   string        `json:"end_timestamp"`
	Severity       Severity      `json:"severity"`
	Category       IssueCategory `json:"category"`
	Description    string        `json:"description"`
	Context        string        `json:"context,omitempty"`
	Location       *Location     `json:"location,omitempty"`
}

// IdentifiedIssue is an Issue carrying the composite id handed out by the
// two-step flow ("{uploadID}_{index}"), without location data.
type IdentifiedIssue struct {
	IssueID        string        `json:"issue_id"`
	StartTimestamp string        `json:"start_timestamp"`
	EndTimestamp   string        `json:"end_timestamp"`
	Severity       Severity      `json:"severity"`
	Category       IssueCategory `json:"category"`
	Description    string        `json:"description"`
	Context        string        `json:"context,omitempty"`
}

// IssueLocation binds a located coordinate back to its issue id.
type IssueLocation struct {
	IssueID  string   `json:"issue_id"`
	Location Location `json:"location"`
}

// AnalysisResult aggregates one analysis run.
type AnalysisResult struct {
	ContentID   string    `json:"video_id"`
	ContentURL  string    `json:"video_url"`
	AnalyzedAt  time.Time `json:"analysis_timestamp"`
	Issues      []Issue   `json:"issues"`
	Summary     string    `json:"summary"`
	TotalIssues int       `json:"total_issues"`
}

// NewAnalysisResult builds a result with TotalIssues derived from the issue
// slice; the count is an invariant, not independently settable.
func NewAnalysisResult(contentID, contentURL string, analyzedAt time.Time, issues []Issue, summary string) *AnalysisResult {
	if issues == nil {
		issues = []Issue{}
	}
	return &AnalysisResult{
		ContentID:   contentID,
		ContentURL:  contentURL,
		AnalyzedAt:  analyzedAt,
		Issues:      issues,
		Summary:     summary,
		TotalIssues: len(issues),
	}
}

// InitialAnalysisResult is the phase-1 response of the two-step flow:
// issues carry ids but no locations yet.
type InitialAnalysisResult struct {
	ContentID   string            `json:"video_id"`
	ContentURL  string            `json:"video_url"`
	AnalyzedAt  time.Time         `json:"analysis_timestamp"`
	Issues      []IdentifiedIssue `json:"issues"`
	Summary     string            `json:"summary"`
	TotalIssues int               `json:"total_issues"`
}

func NewInitialAnalysisResult(contentID, contentURL string, analyzedAt time.Time, issues []IdentifiedIssue, summary string) *InitialAnalysisResult {
	if issues == nil {
		issues = []IdentifiedIssue{}
	}
	return &InitialAnalysisResult{
		ContentID:   contentID,
		ContentURL:  contentURL,
		AnalyzedAt:  analyzedAt,
		Issues:      issues,
		Summary:     summary,
		TotalIssues: len(issues),
	}
}
