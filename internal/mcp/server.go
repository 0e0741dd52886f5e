// Package mcp exposes ailint's session checking as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/ailint/internal/checker"
	"github.com/joescharf/ailint/internal/policy"
	"github.com/joescharf/ailint/internal/sessions"
)

// Server wraps the checker and session/policy stores and exposes them as MCP
// tools.
type Server struct {
	checker      *checker.Checker
	policies     *policy.Store
	sessionsRoot string
}

// NewServer creates the MCP server wrapper with all required dependencies.
func NewServer(c *checker.Checker, p *policy.Store, sessionsRoot string) *Server {
	return &Server{
		checker:      c,
		policies:     p,
		sessionsRoot: sessionsRoot,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("ailint", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listSessionsTool())
	srv.AddTool(s.checkSessionTool())
	srv.AddTool(s.sessionInsightsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// ailint_list_sessions
func (s *Server) listSessionsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ailint_list_sessions",
		mcp.WithDescription("List recent Claude Code sessions available for checking. Returns a JSON array with id, project, and label, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return (default 20)")),
	)
	return tool, s.handleListSessions
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	found, err := sessions.Discover(s.sessionsRoot)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}
	if len(found) > limit {
		found = found[:limit]
	}

	type sessionOut struct {
		ID      string `json:"id"`
		Project string `json:"project"`
		Label   string `json:"label"`
	}

	out := make([]sessionOut, len(found))
	for i, sess := range found {
		// Parse a few messages so labels carry the opening prompt.
		_ = sessions.Parse(sess, 3)
		out[i] = sessionOut{ID: sess.ID, Project: sess.Project, Label: sess.Label()}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal sessions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ailint_check_session
func (s *Server) checkSessionTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ailint_check_session",
		mcp.WithDescription("Check one session against the configured policy. Returns the verdicts, summary, and pass/fail/skip counts as JSON. Session is resolved by id or id prefix."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id or unique id prefix")),
	)
	return tool, s.handleCheckSession
}

func (s *Server) handleCheckSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	transcript, policyText, errResult := s.prepare(sessionID)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.checker.Check(ctx, transcript, policyText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}

	counts := checker.CountVerdicts(result.Verdicts)
	out := struct {
		Verdicts []checker.Verdict `json:"verdicts"`
		Summary  string            `json:"summary"`
		Passed   int               `json:"passed"`
		Failed   int               `json:"failed"`
		Skipped  int               `json:"skipped"`
	}{result.Verdicts, result.Summary, counts.Pass, counts.Fail, counts.Skip}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ailint_session_insights
func (s *Server) sessionInsightsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ailint_session_insights",
		mcp.WithDescription("Extract coaching insights (what went well, what to improve, notable observations) for one session. Session is resolved by id or id prefix."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id or unique id prefix")),
	)
	return tool, s.handleSessionInsights
}

func (s *Server) handleSessionInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	transcript, policyText, errResult := s.prepare(sessionID)
	if errResult != nil {
		return errResult, nil
	}

	report, err := s.checker.Insights(ctx, transcript, policyText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insight extraction failed: %v", err)), nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal insights: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// prepare resolves a session, parses it, and loads the policy. Any failure
// comes back as a tool error result for the client.
func (s *Server) prepare(sessionID string) (transcript, policyText string, errResult *mcp.CallToolResult) {
	sess, err := s.resolveSession(sessionID)
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	if err := sessions.Parse(sess, 0); err != nil {
		return "", "", mcp.NewToolResultError(fmt.Sprintf("failed to parse session: %v", err))
	}
	if len(sess.Messages) == 0 {
		return "", "", mcp.NewToolResultError(fmt.Sprintf("session %s has no messages", sess.ID))
	}

	policyText, err = s.policies.Read()
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return sessions.Transcript(sess), policyText, nil
}

// resolveSession finds a session by full id or unique prefix.
func (s *Server) resolveSession(id string) (*sessions.Session, error) {
	found, err := sessions.Discover(s.sessionsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var matches []*sessions.Session
	for _, sess := range found {
		if sess.ID == id {
			return sess, nil
		}
		if strings.HasPrefix(sess.ID, id) {
			matches = append(matches, sess)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("session not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous session id %s: matches %d sessions", id, len(matches))
	}
}
