package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/ailint/internal/checker"
	"github.com/joescharf/ailint/internal/hook"
	"github.com/joescharf/ailint/internal/output"
	"github.com/joescharf/ailint/internal/policy"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ailint",
	Short: "Check AI coding sessions against your own rules",
	Long: `ailint audits Claude Code session transcripts against a policy you write.
It sends the transcript and your policy to a language model, parses the
verdicts it returns, and reports PASS/FAIL/SKIP per rule along with
coaching-style session insights.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/ailint/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "ailint")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("AILINT")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "ailint")

	viper.SetDefault("policy_dir", defaultConfigDir)
	viper.SetDefault("sessions_dir", filepath.Join(home, ".claude", "projects"))
	viper.SetDefault("claude.bin", "claude")
	viper.SetDefault("claude.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("claude.timeout_seconds", 120)
	viper.SetDefault("claude.settings_path", filepath.Join(home, ".claude", "settings.json"))
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// newAnalyzer picks the analysis backend: the Anthropic API when a key is
// configured, otherwise the claude CLI.
func newAnalyzer() checker.Analyzer {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey != "" {
		return checker.NewAnthropicAPI(apiKey, viper.GetString("anthropic.model"))
	}

	return &checker.ClaudeCLI{
		Bin:     viper.GetString("claude.bin"),
		Model:   viper.GetString("claude.model"),
		Timeout: time.Duration(viper.GetInt("claude.timeout_seconds")) * time.Second,
	}
}

func newChecker() *checker.Checker {
	return checker.New(newAnalyzer())
}

func newPolicyStore() *policy.Store {
	return policy.NewStore(viper.GetString("policy_dir"))
}

func newHookManager() *hook.Manager {
	return hook.NewManager(viper.GetString("claude.settings_path"))
}

func sessionsRoot() string {
	return viper.GetString("sessions_dir")
}
