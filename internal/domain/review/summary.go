package review

import (
	"fmt"
	"strings"
)

const noIssuesSummary = "No significant medical accuracy issues identified in this content."

// Summarize renders a deterministic one-line synopsis of the issue list.
// Severity counts are reported most severe first regardless of issue order.
// An explicit model-supplied summary, when present, is preferred by the
// caller and this function is not consulted.
func Summarize(issues []Issue) string {
	if len(issues) == 0 {
		return noIssuesSummary
	}

	counts := make(map[Severity]int, len(severitiesDesc))
	for _, issue := range issues {
		counts[issue.Severity]++
	}

	parts := make([]string, 0, len(severitiesDesc))
	for _, s := range severitiesDesc {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}

	plural := "s"
	if len(issues) == 1 {
		plural = ""
	}
	return fmt.Sprintf("Analysis identified %d potential issue%s (%s) requiring review.",
		len(issues), plural, strings.Join(parts, ", "))
}
