package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show or edit your policy file",
	Long: `Show or edit the policy document your sessions are checked against.

Running bare 'ailint policy' opens the policy in $EDITOR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return policyEditRun()
	},
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return policyShowRun()
	},
}

var policyEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the policy in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return policyEditRun()
	},
}

var policyPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the policy file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(ui.Out, newPolicyStore().Path())
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyEditCmd)
	policyCmd.AddCommand(policyPathCmd)
	rootCmd.AddCommand(policyCmd)
}

func policyShowRun() error {
	text, err := newPolicyStore().Read()
	if err != nil {
		return err
	}
	fmt.Fprint(ui.Out, text)
	return nil
}

func policyEditRun() error {
	policies := newPolicyStore()
	if !policies.Exists() {
		return fmt.Errorf("no policy found. Run 'ailint init' first")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set — set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	editCmd := exec.Command(editor, policies.Path())
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
