package cmd

import (
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the SessionEnd hook",
	Long: `Manage the SessionEnd hook in the Claude settings file.

The hook runs 'ailint check --last --quiet' automatically when a Claude Code
session ends.`,
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the SessionEnd hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newHookManager()
		replaced, err := m.Install()
		if err != nil {
			return err
		}
		if replaced {
			ui.Success("Updated ailint SessionEnd hook in %s", m.SettingsPath)
		} else {
			ui.Success("Installed SessionEnd hook in %s", m.SettingsPath)
		}
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the SessionEnd hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newHookManager()
		removed, err := m.Uninstall()
		if err != nil {
			return err
		}
		if removed {
			ui.Success("Removed ailint SessionEnd hook.")
		} else {
			ui.Info("ailint hook is not installed.")
		}
		return nil
	},
}

var hookStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the SessionEnd hook is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newHookManager()
		installed, err := m.Installed()
		if err != nil {
			return err
		}
		if installed {
			ui.Success("SessionEnd hook is installed (%s)", m.SettingsPath)
		} else {
			ui.Info("SessionEnd hook is not installed. Run 'ailint hook install'.")
		}
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.AddCommand(hookStatusCmd)
	rootCmd.AddCommand(hookCmd)
}
