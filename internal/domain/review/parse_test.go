package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyIssues_NoIssuesSentinel(t *testing.T) {
	issues := ParseLegacyIssues("After careful review: NO ISSUES FOUND in this content.")
	assert.Empty(t, issues)
	assert.NotNil(t, issues)
}

func TestParseLegacyIssues_FullBlock(t *testing.T) {
	raw := `ISSUE:
Start: 01:23
End: 01:45
Severity: High
Category: Dosage Concern
Description: The stated adult dose is ten times the labeled maximum.
Context: Narrator recommends 5000mg of paracetamol per dose.
Location: {"x": 0.5, "y": 0.3}`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "01:23", issue.StartTimestamp)
	assert.Equal(t, "01:45", issue.EndTimestamp)
	assert.Equal(t, SeverityHigh, issue.Severity)
	assert.Equal(t, CategoryDosageConcern, issue.Category)
	assert.Equal(t, "The stated adult dose is ten times the labeled maximum.", issue.Description)
	assert.Equal(t, "Narrator recommends 5000mg of paracetamol per dose.", issue.Context)
	require.NotNil(t, issue.Location)
	assert.Equal(t, 0.5, issue.Location.X)
	assert.Equal(t, 0.3, issue.Location.Y)
}

func TestParseLegacyIssues_BlockWithoutStartIsDropped(t *testing.T) {
	raw := `ISSUE:
Severity: High
Description: No timestamp on this one, so it cannot be keyed.
ISSUE:
Start: 00:10
Description: This block is fine and should survive the parse.`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, "00:10", issues[0].StartTimestamp)
}

func TestParseLegacyIssues_Defaults(t *testing.T) {
	raw := `ISSUE:
Start: 02:00
Description: short`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "02:00", issue.EndTimestamp, "end defaults to start")
	assert.Equal(t, SeverityMedium, issue.Severity, "unknown severity defaults to medium")
	assert.Equal(t, CategoryOther, issue.Category, "unknown category defaults to other")
	assert.Equal(t, "Potential issue identified at 02:00", issue.Description, "short descriptions get the placeholder")
	assert.Nil(t, issue.Location)
}

func TestParseLegacyIssues_BadLocationNotFatal(t *testing.T) {
	raw := `ISSUE:
Start: 00:05
Description: The inhaler technique shown here skips the required spacer.
Location: {"x": 1.7, "y": 0.2}`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Nil(t, issues[0].Location, "out-of-range location is dropped, not fatal")
}

func TestParseLegacyIssues_LocationMissingCoordinate(t *testing.T) {
	raw := `ISSUE:
Start: 00:05
Description: The bandage wrap direction contradicts standard practice here.
Location: {"x": 0.4}`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Nil(t, issues[0].Location)
}

func TestParseLegacyIssues_SkipsExampleBlocks(t *testing.T) {
	raw := `Example:
ISSUE:
Start: 00:00
Description: Example: this echoes the prompt grammar and must be skipped.
ISSUE:
Start: 03:15
Description: The claimed interaction between these two drugs is fabricated.`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, "03:15", issues[0].StartTimestamp)
}

func TestParseLegacyIssues_ImageTimestamps(t *testing.T) {
	raw := `ISSUE:
Start: N/A (static image)
End: n/a
Severity: critical
Category: contraindication_ignored
Description: The infographic recommends aspirin for a patient group it is contraindicated for.`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, TimestampNA, issues[0].StartTimestamp)
	assert.Equal(t, TimestampNA, issues[0].EndTimestamp)
	assert.Equal(t, SeverityCritical, issues[0].Severity)
	assert.Equal(t, CategoryContraindication, issues[0].Category)
}

func TestParseLegacyIssues_HourTimestamps(t *testing.T) {
	raw := `ISSUE:
Start: around 1:02:45 in the video
Description: The CPR compression depth quoted is far below guidelines.`

	issues := ParseLegacyIssues(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, "1:02:45", issues[0].StartTimestamp)
}

func TestParseAnalysis_StructuredFailureIsTerminal(t *testing.T) {
	_, _, err := ParseAnalysis(RawAnalysis{Text: "not json at all", Structured: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseAnalysis_LegacyNeverFails(t *testing.T) {
	issues, summary, err := ParseAnalysis(RawAnalysis{Text: "complete gibberish with no blocks"})
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, summary)
}
