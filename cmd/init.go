package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/ailint/internal/checker"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Setup wizard: choose persona, create policy, install hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initRun()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initRun() error {
	fmt.Fprintln(ui.Out, "Welcome to ailint!")
	fmt.Fprintln(ui.Out)

	// 1. Check the claude CLI
	cli := &checker.ClaudeCLI{Bin: viper.GetString("claude.bin")}
	if cli.Available() {
		ui.Success("claude CLI found")
	} else {
		ui.Warning("claude CLI not found")
		fmt.Fprintln(ui.ErrOut, "    Install it: curl -fsSL https://claude.ai/install.sh | bash")
		fmt.Fprintln(ui.ErrOut, "    ailint needs the claude CLI (or an Anthropic API key) to analyze sessions.")
		fmt.Fprintln(ui.ErrOut)
	}

	reader := bufio.NewReader(os.Stdin)

	// 2. Choose persona
	fmt.Fprintln(ui.Out, "Who are you?")
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "  1. self — Individual developer checking your own habits")
	fmt.Fprintln(ui.Out, "  2. team — Team lead/manager enforcing guidelines")
	fmt.Fprintln(ui.Out)

	persona, err := promptPersona(reader)
	if err != nil {
		return err
	}

	// 3. Install policy
	policies := newPolicyStore()
	install := true
	if policies.Exists() {
		overwrite, err := promptYesNo(reader, "Policy already exists. Overwrite?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(ui.Out, "Keeping existing policy.")
			install = false
		}
	}
	if install {
		if err := policies.Install(persona); err != nil {
			return err
		}
		ui.Success("Installed '%s' policy to %s", persona, policies.Path())
	}

	// 4. Offer to install the hook
	hooks := newHookManager()
	installed, err := hooks.Installed()
	if err != nil {
		ui.Warning("Could not read Claude settings: %v", err)
	} else if installed {
		ui.Success("SessionEnd hook already installed")
	} else {
		yes, err := promptYesNo(reader, "Install a SessionEnd hook to auto-check after each session?", true)
		if err != nil {
			return err
		}
		if yes {
			if _, err := hooks.Install(); err != nil {
				return err
			}
			ui.Success("Installed SessionEnd hook in %s", hooks.SettingsPath)
		} else {
			fmt.Fprintln(ui.Out, "Skipped hook installation. You can add it later with 'ailint hook install'.")
		}
	}

	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "Done! Run 'ailint check' to check a session, or 'ailint policy' to edit your rules.")
	return nil
}

func promptPersona(reader *bufio.Reader) (string, error) {
	for {
		fmt.Fprint(ui.Out, "Choose a persona (1/2/self/team): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read persona: %w", err)
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "1", "self":
			return "self", nil
		case "2", "team":
			return "team", nil
		}
		ui.Warning("Enter 1, 2, self, or team")
	}
}

func promptYesNo(reader *bufio.Reader, question string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(ui.Out, "%s %s: ", question, suffix)

	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
