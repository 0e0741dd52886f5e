// Package sessions finds and parses Claude Code session JSONL transcripts.
package sessions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joescharf/ailint/internal/checker"
)

// DefaultMaxMessages caps how many messages Parse reads from one session.
const DefaultMaxMessages = 200

// Message is one user or assistant turn in a session.
type Message struct {
	Role      string
	Text      string
	Timestamp string
}

// Session is one Claude Code session log. Messages are empty until Parse
// fills them.
type Session struct {
	ID        string
	Path      string
	Project   string // derived from the project directory name
	Cwd       string
	Timestamp string
	Messages  []Message
}

// Label builds the human-readable line used by the session picker:
// time, project, and an excerpt of the first message.
func (s *Session) Label() string {
	var parts []string

	if s.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, s.Timestamp); err == nil {
			parts = append(parts, ts.Format("2006-01-02 15:04"))
		} else if len(s.Timestamp) >= 16 {
			parts = append(parts, s.Timestamp[:16])
		} else {
			parts = append(parts, s.Timestamp)
		}
	}

	if project := strings.TrimPrefix(strings.ReplaceAll(s.Project, "-", "/"), "/"); project != "" {
		parts = append(parts, project)
	}

	if len(s.Messages) > 0 {
		first := strings.ReplaceAll(s.Messages[0].Text, "\n", " ")
		if len(first) > 60 {
			first = first[:60] + "..."
		}
		parts = append(parts, fmt.Sprintf("%q", first))
	}

	if len(parts) == 0 {
		if len(s.ID) >= 8 {
			return s.ID[:8]
		}
		return s.ID
	}
	return strings.Join(parts, " | ")
}

// Discover finds session JSONL files under root, newest first. Subagent
// transcripts and ailint's own claude -p sessions are skipped. A missing
// root is not an error; it just means no sessions.
func Discover(root string) ([]*Session, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	type found struct {
		session *Session
		mtime   time.Time
	}
	var all []found

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() || !strings.HasSuffix(path, ".jsonl") {
			return nil
		}
		if slices.Contains(strings.Split(path, string(filepath.Separator)), "subagents") {
			return nil
		}
		if isInternalSession(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		name := filepath.Base(path)
		all = append(all, found{
			session: &Session{
				ID:      strings.TrimSuffix(name, ".jsonl"),
				Path:    path,
				Project: filepath.Base(filepath.Dir(path)),
			},
			mtime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sessions under %s: %w", root, err)
	}

	slices.SortStableFunc(all, func(a, b found) int {
		return b.mtime.Compare(a.mtime)
	})

	sessions := make([]*Session, len(all))
	for i, f := range all {
		sessions[i] = f.session
	}
	return sessions, nil
}

// isInternalSession reports whether the session's first user message starts
// with one of ailint's own analysis prompts. Those sessions are ailint
// checking other sessions, not user work.
func isInternalSession(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Type != "user" {
			continue
		}

		text := extractText(entry.Message.Content)
		for _, prefix := range checker.PromptPrefixes {
			if strings.HasPrefix(text, prefix) {
				return true
			}
		}
		return false
	}
	return false
}

// logEntry mirrors the subset of the Claude Code JSONL format we read.
type logEntry struct {
	Type      string `json:"type"`
	Cwd       string `json:"cwd"`
	Timestamp string `json:"timestamp"`
	Message   struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// contentBlock is one element of a block-list message content.
type contentBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   map[string]any  `json:"input"`
	Content json.RawMessage `json:"content"`
}

// Parse reads the session file and fills Messages, Cwd, and Timestamp,
// reading at most maxMessages messages. Unparseable lines are skipped.
func Parse(s *Session, maxMessages int) error {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	var messages []Message
	var firstTimestamp, cwd string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		if cwd == "" && entry.Cwd != "" {
			cwd = entry.Cwd
		}
		if entry.Type != "user" && entry.Type != "assistant" {
			continue
		}
		if entry.Message.Role == "" || len(entry.Message.Content) == 0 {
			continue
		}
		if isPureToolResult(entry.Message.Content) {
			continue
		}

		text := extractText(entry.Message.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}

		if firstTimestamp == "" {
			firstTimestamp = entry.Timestamp
		}
		messages = append(messages, Message{
			Role:      entry.Message.Role,
			Text:      text,
			Timestamp: entry.Timestamp,
		})
		if len(messages) >= maxMessages {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	s.Messages = messages
	s.Cwd = cwd
	s.Timestamp = firstTimestamp
	return nil
}

// extractText renders message content (a plain string or a block list) as
// readable text. Tool calls are summarized per tool; long tool results are
// truncated.
func extractText(content json.RawMessage) string {
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var blocks []json.RawMessage
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, raw := range blocks {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			parts = append(parts, str)
			continue
		}

		var block contentBlock
		if err := json.Unmarshal(raw, &block); err != nil {
			continue
		}

		switch block.Type {
		case "text":
			parts = append(parts, block.Text)
		case "tool_use":
			parts = append(parts, summarizeToolUse(block))
		case "tool_result":
			var result string
			if err := json.Unmarshal(block.Content, &result); err == nil && result != "" {
				if len(result) > 500 {
					result = result[:500] + "... (truncated)"
				}
				parts = append(parts, "[Tool Result] "+result)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func summarizeToolUse(block contentBlock) string {
	name := block.Name
	if name == "" {
		name = "unknown"
	}
	inputStr := func(key string) string {
		v, _ := block.Input[key].(string)
		return v
	}

	switch name {
	case "Bash":
		return "[Tool: Bash] " + inputStr("command")
	case "Read", "Write", "Edit":
		return fmt.Sprintf("[Tool: %s] %s", name, inputStr("file_path"))
	case "Grep":
		return "[Tool: Grep] pattern=" + inputStr("pattern")
	case "Glob":
		return "[Tool: Glob] " + inputStr("pattern")
	default:
		return fmt.Sprintf("[Tool: %s]", name)
	}
}

// isPureToolResult reports whether every block in the content is a
// tool_result. Those messages are echoes of tool output, not conversation.
func isPureToolResult(content json.RawMessage) bool {
	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil || len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		if b.Type != "tool_result" {
			return false
		}
	}
	return true
}

// Transcript renders a parsed session as the plain-text transcript sent to
// the analyzer.
func Transcript(s *Session) string {
	var lines []string
	lines = append(lines, "# Session: "+s.ID)
	lines = append(lines, "Project: "+s.Project)
	if s.Cwd != "" {
		lines = append(lines, "Working directory: "+s.Cwd)
	}
	if s.Timestamp != "" {
		lines = append(lines, "Started: "+s.Timestamp)
	}
	lines = append(lines, fmt.Sprintf("Messages: %d", len(s.Messages)))
	lines = append(lines, "")

	for _, msg := range s.Messages {
		role := "USER"
		if msg.Role != "user" {
			role = "ASSISTANT"
		}
		lines = append(lines, fmt.Sprintf("--- %s ---", role))
		lines = append(lines, msg.Text)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
