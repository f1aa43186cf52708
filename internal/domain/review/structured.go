package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StructuredAnalysis is the schema-constrained model payload:
// an issues array plus an optional model-written summary.
type StructuredAnalysis struct {
	Issues  []Issue
	Summary string
}

type structuredIssue struct {
	StartTimestamp string    `json:"start_timestamp"`
	EndTimestamp   string    `json:"end_timestamp"`
	Severity       string    `json:"severity"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Context        string    `json:"context"`
	Location       *Location `json:"location"`
}

type structuredDoc struct {
	Issues  []structuredIssue `json:"issues"`
	Summary string            `json:"summary"`
}

// ParseStructured decodes a structured-mode JSON document. The caller asked
// for this shape explicitly, so any decode or constraint failure is terminal.
func ParseStructured(raw string) (*StructuredAnalysis, error) {
	var doc structuredDoc
	if err := json.Unmarshal([]byte(stripFences(raw)), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if doc.Issues == nil {
		return nil, fmt.Errorf("%w: missing issues array", ErrMalformedResponse)
	}

	issues := make([]Issue, 0, len(doc.Issues))
	for i, si := range doc.Issues {
		if si.StartTimestamp == "" {
			return nil, fmt.Errorf("%w: issue %d missing start_timestamp", ErrMalformedResponse, i)
		}
		end := si.EndTimestamp
		if end == "" {
			end = si.StartTimestamp
		}
		description := si.Description
		if len(description) < MinDescriptionLength {
			description = fmt.Sprintf("Potential issue identified at %s", si.StartTimestamp)
		}
		var loc *Location
		if si.Location != nil {
			validated, err := NewLocation(si.Location.X, si.Location.Y)
			if err != nil {
				return nil, fmt.Errorf("%w: issue %d: %v", ErrMalformedResponse, i, err)
			}
			loc = &validated
		}
		issues = append(issues, Issue{
			StartTimestamp: si.StartTimestamp,
			EndTimestamp:   end,
			Severity:       SeverityFromText(si.Severity),
			Category:       CategoryFromText(si.Category),
			Description:    description,
			Context:        si.Context,
			Location:       loc,
		})
	}

	return &StructuredAnalysis{Issues: issues, Summary: doc.Summary}, nil
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the JSON MIME type request.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
