package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/ailint/internal/checker"
	"github.com/joescharf/ailint/internal/output"
	"github.com/joescharf/ailint/internal/sessions"
)

var (
	checkLast       bool
	checkQuiet      bool
	checkNoInsights bool
)

// pickLimit caps how many recent sessions the interactive picker shows.
const pickLimit = 20

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Pick a session and check it against your policy",
	Long: `Check a Claude Code session against your policy.

Without flags, shows a picker over the most recent sessions. With --last,
checks the most recent session directly (the form the SessionEnd hook uses).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkRun()
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkLast, "last", false, "Check the most recent session without prompting")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false, "Minimal output (for hook usage)")
	checkCmd.Flags().BoolVar(&checkNoInsights, "no-insights", false, "Skip session insights")
	rootCmd.AddCommand(checkCmd)
}

func checkRun() error {
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

	var selected *sessions.Session
	if checkLast {
		selected = found[0] // already sorted most recent first
	} else {
		selected, err = pickSession(found)
		if err != nil {
			return err
		}
	}

	if !checkQuiet {
		ui.Info("Parsing session %s...", shortID(selected.ID))
	}
	if err := sessions.Parse(selected, 0); err != nil {
		return err
	}
	if len(selected.Messages) == 0 {
		ui.Info("Session has no messages.")
		return nil
	}

	transcript := sessions.Transcript(selected)
	policyText, err := policies.Read()
	if err != nil {
		return err
	}

	if !checkQuiet {
		ui.Info("Checking %d messages against policy...", len(selected.Messages))
	}

	c := newChecker()
	withInsights := !checkQuiet && !checkNoInsights

	var result *checker.CheckResult
	var insights *checker.InsightReport

	spinner := output.NewSpinner(ui.ErrOut, "Analyzing with claude...")
	spinner.Start()
	if withInsights {
		result, insights, err = c.CheckWithInsights(context.Background(), transcript, policyText)
	} else {
		result, err = c.Check(context.Background(), transcript, policyText)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, checker.FormatVerdicts(result))

	if withInsights {
		if insights != nil {
			fmt.Fprintln(ui.Out, checker.FormatInsights(insights))
		} else {
			ui.VerboseLog("insights unavailable for this session")
		}
	}
	return nil
}

// pickSession shows the recent-session picker and reads a 1-based choice.
func pickSession(found []*sessions.Session) (*sessions.Session, error) {
	display := found
	if len(display) > pickLimit {
		display = display[:pickLimit]
	}

	// Parse just enough of each session to build labels.
	for _, s := range display {
		_ = sessions.Parse(s, 3)
	}

	fmt.Fprintln(ui.Out, "Recent sessions:")
	fmt.Fprintln(ui.Out)
	for i, s := range display {
		fmt.Fprintf(ui.Out, "  %2d. %s\n", i+1, s.Label())
	}
	fmt.Fprintln(ui.Out)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprintf(ui.Out, "Choose a session [1-%d]: ", len(display))
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read selection: %w", err)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || idx < 1 || idx > len(display) {
			ui.Warning("Enter a number between 1 and %d", len(display))
			continue
		}
		return display[idx-1], nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
