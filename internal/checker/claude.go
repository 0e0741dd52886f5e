package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrClaudeNotFound signals a setup problem rather than a transient failure;
// callers print install guidance instead of a generic error.
var ErrClaudeNotFound = errors.New("'claude' CLI not found. Install Claude Code: https://claude.ai/install.sh")

// DefaultTimeout bounds a single analysis call.
const DefaultTimeout = 120 * time.Second

// Analyzer is the black-box (prompt) -> text function behind every analysis
// call. All response-format uncertainty lives behind it in RecoverJSON, so
// the checker is testable with canned replies and no real subprocess.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// ClaudeCLI runs analysis prompts through the claude CLI in print mode.
type ClaudeCLI struct {
	// Bin is the executable name or path. Defaults to "claude".
	Bin string
	// Model passed via --model.
	Model string
	// Timeout for one invocation. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Available reports whether the claude executable can be found on PATH.
func (c *ClaudeCLI) Available() bool {
	_, err := exec.LookPath(c.bin())
	return err == nil
}

func (c *ClaudeCLI) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "claude"
}

func (c *ClaudeCLI) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Analyze sends the prompt to claude -p on stdin and returns its stdout.
// The prompt goes over stdin rather than argv so prompt length and quoting
// never hit command-line limits. Hooks and session persistence are disabled
// so ailint's own calls don't pollute the session logs it audits.
func (c *ClaudeCLI) Analyze(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrClaudeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	args := []string{
		"-p",
		"--model", c.Model,
		"--output-format", "json",
		"--no-session-persistence",
		"--settings", `{"disableAllHooks": true}`,
	}

	cmd := exec.CommandContext(ctx, c.bin(), args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("claude -p timed out after %s", c.timeout())
	}
	if err != nil {
		return "", fmt.Errorf("claude -p failed:\n%s", stderr.String())
	}
	return stdout.String(), nil
}
