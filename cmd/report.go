package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/joescharf/ailint/internal/checker"
	"github.com/joescharf/ailint/internal/output"
	"github.com/joescharf/ailint/internal/sessions"
)

var (
	reportCount   int
	reportOutfile string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Check multiple recent sessions and generate a markdown report",
	Long: `Check the N most recent sessions against your policy sequentially and
write a markdown compliance report. A failure for one session is reported
inline and the batch continues with the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun()
	},
}

func init() {
	reportCmd.Flags().IntVarP(&reportCount, "count", "n", 5, "Number of recent sessions to check")
	reportCmd.Flags().StringVarP(&reportOutfile, "output", "o", "", "Export markdown report to file")
	rootCmd.AddCommand(reportCmd)
}

func reportRun() error {
	policies := newPolicyStore()
	if !policies.Exists() {
		return fmt.Errorf("no policy found. Run 'ailint init' first")
	}

	found, err := sessions.Discover(sessionsRoot())
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no sessions found in %s", sessionsRoot())
	}

	toCheck := found
	if len(toCheck) > reportCount {
		toCheck = toCheck[:reportCount]
	}

	policyText, err := policies.Read()
	if err != nil {
		return err
	}

	c := newChecker()
	var results []checker.SessionResult

	for i, s := range toCheck {
		if err := sessions.Parse(s, 0); err != nil {
			ui.Warning("Skipping %s: %v", shortID(s.ID), err)
			continue
		}
		if len(s.Messages) == 0 {
			continue
		}

		spinner := output.NewSpinner(ui.ErrOut, fmt.Sprintf("[%d/%d] Checking %s...", i+1, len(toCheck), s.Label()))
		spinner.Start()
		result, err := c.Check(context.Background(), sessions.Transcript(s), policyText)
		spinner.Stop()
		if err != nil {
			// Batch boundary: report and move on to the next session.
			ui.Error("%v", err)
			continue
		}

		results = append(results, checker.SessionResult{Label: s.Label(), Result: result})

		counts := checker.CountVerdicts(result.Verdicts)
		ui.Info("%s -> %d passed, %d failed", s.Label(), counts.Pass, counts.Fail)
	}

	if len(results) == 0 {
		ui.Info("No sessions had messages to check.")
		return nil
	}

	printReportSummary(results)

	md := checker.FormatReportMarkdown(results)
	outfile := reportOutfile
	if outfile == "" {
		outfile = fmt.Sprintf("ailint-report-%s.md", newReportID())
	}
	if err := os.WriteFile(outfile, []byte(md), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	ui.Success("Report saved to %s", outfile)
	return nil
}

// printReportSummary renders the per-session tally table and the overall
// violation count.
func printReportSummary(results []checker.SessionResult) {
	fmt.Fprintln(ui.Out)
	table := ui.Table([]string{"SESSION", "PASS", "FAIL", "SKIP"})
	totalFail := 0
	for _, r := range results {
		counts := checker.CountVerdicts(r.Result.Verdicts)
		totalFail += counts.Fail
		table.Append([]string{
			r.Label,
			strconv.Itoa(counts.Pass),
			strconv.Itoa(counts.Fail),
			strconv.Itoa(counts.Skip),
		})
	}
	table.Render()
	fmt.Fprintln(ui.Out)

	ui.Info("Checked %d sessions.", len(results))
	if totalFail == 0 {
		ui.Success("All clear — no policy violations found.")
	} else {
		ui.Warning("Found %d total violation(s) across sessions.", totalFail)
	}
}

// newReportID returns a fresh ULID for default report filenames, so repeated
// runs never clobber each other and sort chronologically.
func newReportID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}
