package review

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// RawAnalysis is the model's reply plus the shape it was requested in.
// Structured means an output schema was supplied on the call, so Text is a
// JSON document; otherwise Text follows the legacy ISSUE-block grammar.
type RawAnalysis struct {
	Text       string
	Structured bool
}

// NoIssuesSentinel short-circuits legacy parsing to an empty issue list.
const NoIssuesSentinel = "NO ISSUES FOUND"

const issueDelimiter = "ISSUE:"

var timestampPattern = regexp.MustCompile(`(\d{1,2}:\d{2}(?::\d{2})?)`)

// ParseAnalysis converts a model reply into issues plus an optional explicit
// summary. On the structured path a parse failure is terminal; on the legacy
// path field-level defects are defaulted or dropped and never abort the batch.
func ParseAnalysis(raw RawAnalysis) (issues []Issue, summary string, err error) {
	if raw.Structured {
		structured, err := ParseStructured(raw.Text)
		if err != nil {
			return nil, "", err
		}
		return structured.Issues, structured.Summary, nil
	}
	return ParseLegacyIssues(raw.Text), "", nil
}

// ParseLegacyIssues extracts issues from legacy free-text output. It never
// fails: a block that cannot be keyed by a start timestamp is discarded and
// every other missing field gets a documented default.
func ParseLegacyIssues(raw string) []Issue {
	issues := []Issue{}

	if strings.Contains(raw, NoIssuesSentinel) {
		slog.Info("analysis reported no issues")
		return issues
	}

	for _, block := range strings.Split(raw, issueDelimiter) {
		// Prompt echoes sometimes repeat the grammar example; skip those.
		if strings.TrimSpace(block) == "" || strings.Contains(block, "Example:") {
			continue
		}
		if issue, ok := parseIssueBlock(block); ok {
			issues = append(issues, issue)
		}
	}

	slog.Info("parsed legacy analysis", "issues", len(issues))
	return issues
}

type issueFields struct {
	start       string
	end         string
	severity    string
	category    string
	description string
	context     string
	location    *Location
}

func parseIssueBlock(block string) (Issue, bool) {
	var f issueFields

	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "start:"):
			f.start = parseTimestamp(line)
		case strings.HasPrefix(lower, "end:"):
			f.end = parseTimestamp(line)
		case strings.HasPrefix(lower, "severity:"):
			f.severity = fieldValue(line)
		case strings.HasPrefix(lower, "category:"):
			f.category = fieldValue(line)
		case strings.HasPrefix(lower, "description:"):
			f.description = fieldValue(line)
		case strings.HasPrefix(lower, "context:"):
			f.context = fieldValue(line)
		case strings.HasPrefix(lower, "location:"):
			f.location = parseLocationLine(line)
		}
		// Anything else is prose around the block; ignore it.
	}

	// Without a start timestamp there is no way to key the issue.
	if f.start == "" {
		return Issue{}, false
	}
	return buildIssue(f), true
}

// fieldValue returns the text after the first colon.
func fieldValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}

// parseTimestamp pulls an HH:MM:SS or MM:SS token out of a Start:/End: line,
// or the N/A sentinel used for static images.
func parseTimestamp(line string) string {
	value := fieldValue(line)
	if m := timestampPattern.FindString(value); m != "" {
		return m
	}
	if strings.Contains(strings.ToLower(value), "n/a") {
		return TimestampNA
	}
	return ""
}

// parseLocationLine parses the single-line JSON object after "Location:".
// Failure is logged and the field omitted; it is never fatal to the block.
func parseLocationLine(line string) *Location {
	value := fieldValue(line)
	var payload struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		slog.Warn("failed to parse location line", "line", line, "error", err)
		return nil
	}
	if payload.X == nil || payload.Y == nil {
		slog.Warn("location line missing x or y", "line", line)
		return nil
	}
	loc, err := NewLocation(*payload.X, *payload.Y)
	if err != nil {
		slog.Warn("location out of range", "line", line, "error", err)
		return nil
	}
	return &loc
}

func buildIssue(f issueFields) Issue {
	end := f.end
	if end == "" {
		end = f.start
	}

	description := f.description
	if len(description) < MinDescriptionLength {
		description = fmt.Sprintf("Potential issue identified at %s", f.start)
	}

	return Issue{
		StartTimestamp: f.start,
		EndTimestamp:   end,
		Severity:       SeverityFromText(f.severity),
		Category:       CategoryFromText(f.category),
		Description:    description,
		Context:        f.context,
		Location:       f.location,
	}
}
