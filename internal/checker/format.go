package checker

import (
	"fmt"
	"strings"
)

// termIcons are the ASCII markers used in terminal output. Unknown verdict
// tokens render with "?" rather than crashing.
var termIcons = map[string]string{
	VerdictPass: "+",
	VerdictFail: "x",
	VerdictSkip: "-",
}

// mdIcons are the emoji markers used in markdown reports.
var mdIcons = map[string]string{
	VerdictPass: "✅",
	VerdictFail: "❌",
	VerdictSkip: "⏭️",
}

func icon(icons map[string]string, verdict, fallback string) string {
	if i, ok := icons[verdict]; ok {
		return i
	}
	return fallback
}

// FormatVerdicts renders a check result for the terminal. Compact: only FAIL
// verdicts show their reasoning in full.
func FormatVerdicts(result *CheckResult) string {
	var lines []string
	counts := CountVerdicts(result.Verdicts)

	for _, v := range result.Verdicts {
		if v.Verdict == VerdictFail {
			lines = append(lines, fmt.Sprintf("  [%s] %s: %s — %s", icon(termIcons, v.Verdict, "?"), v.Verdict, v.Rule, v.Reasoning))
		} else {
			lines = append(lines, fmt.Sprintf("  [%s] %s: %s", icon(termIcons, v.Verdict, "?"), v.Verdict, v.Rule))
		}
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  %d/%d passed", counts.Pass, counts.Total()))
	return strings.Join(lines, "\n")
}

// FormatInsights renders an insight report for the terminal. Empty sections
// are omitted.
func FormatInsights(report *InsightReport) string {
	lines := []string{"\n--- Session Insights ---\n"}

	section := func(title string, items []InsightItem) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, title)
		for _, item := range items {
			lines = append(lines, fmt.Sprintf("  - %s", item.Headline()))
			lines = append(lines, fmt.Sprintf("    Evidence: %s", item.Evidence))
		}
		lines = append(lines, "")
	}

	section("What went well:", report.WhatWentWell)
	section("What to improve:", report.WhatToImprove)
	section("Notable:", report.Notable)

	return strings.Join(lines, "\n")
}

// SessionResult pairs a session label with its check result for reporting.
type SessionResult struct {
	Label  string
	Result *CheckResult
}

// FormatReportMarkdown renders multiple session results as a markdown
// report: per-session sections grouped by category in first-seen order, a
// per-session score line, and overall totals. Deterministic for a given
// input, so re-rendering the same results is byte-identical.
func FormatReportMarkdown(results []SessionResult) string {
	lines := []string{"# ailint Compliance Report", ""}

	var total Counts

	for _, entry := range results {
		counts := CountVerdicts(entry.Result.Verdicts)

		lines = append(lines, fmt.Sprintf("## %s", entry.Label))
		lines = append(lines, "")

		for _, group := range GroupByCategory(entry.Result.Verdicts) {
			lines = append(lines, fmt.Sprintf("### %s", group.Category))
			lines = append(lines, "")
			for _, v := range group.Verdicts {
				lines = append(lines, fmt.Sprintf("- %s **%s**: %s", icon(mdIcons, v.Verdict, "❓"), v.Verdict, v.Rule))
				lines = append(lines, fmt.Sprintf("  - %s", v.Reasoning))
			}
			lines = append(lines, "")
		}

		total.Pass += counts.Pass
		total.Fail += counts.Fail
		total.Skip += counts.Skip
		total.Unknown += counts.Unknown

		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("**Score: %d passed, %d failed, %d skipped**", counts.Pass, counts.Fail, counts.Skip))
		lines = append(lines, "")

		if entry.Result.Summary != "" {
			lines = append(lines, fmt.Sprintf("> %s", entry.Result.Summary))
			lines = append(lines, "")
		}

		lines = append(lines, "---")
		lines = append(lines, "")
	}

	lines = append(lines, "## Overall")
	lines = append(lines, fmt.Sprintf("- Sessions checked: %d", len(results)))
	lines = append(lines, fmt.Sprintf("- Total: %d passed, %d failed, %d skipped", total.Pass, total.Fail, total.Skip))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}
