// Package checker sends session transcripts and a policy document to a
// language-model backend and recovers structured verdicts and insights from
// its loosely-formatted replies.
package checker

import (
	"context"
	"encoding/json"
	"fmt"
)

// Checker runs compliance checks and insight extraction through an Analyzer.
// Stateless: every call is one independent request/response cycle.
type Checker struct {
	analyzer Analyzer
}

// New creates a Checker backed by the given analyzer.
func New(a Analyzer) *Checker {
	return &Checker{analyzer: a}
}

// Check audits a transcript against the policy and returns the verdicts.
func (c *Checker) Check(ctx context.Context, transcript, policy string) (*CheckResult, error) {
	raw, err := c.analyzer.Analyze(ctx, buildCheckPrompt(transcript, policy))
	if err != nil {
		return nil, err
	}

	msg, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}

	var result CheckResult
	if err := json.Unmarshal(msg, &result); err != nil {
		return nil, fmt.Errorf("model response does not match verdict shape: %w\nraw output:\n%s", err, msg)
	}
	return &result, nil
}

// Insights extracts coaching feedback for a transcript. The recovered value
// is validated into a well-formed report; malformed shapes degrade to empty
// lists rather than errors.
func (c *Checker) Insights(ctx context.Context, transcript, policy string) (*InsightReport, error) {
	raw, err := c.analyzer.Analyze(ctx, buildInsightPrompt(transcript, policy))
	if err != nil {
		return nil, err
	}

	msg, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}
	return ValidateInsights(msg), nil
}

// CheckWithInsights runs the verdict check and insight extraction in
// parallel. The two calls are independent, equally costly, and network
// bound; serializing them would double latency. An insight failure is
// swallowed and the check result still returns with a nil report; a check
// failure aborts the whole operation.
func (c *Checker) CheckWithInsights(ctx context.Context, transcript, policy string) (*CheckResult, *InsightReport, error) {
	type checkOut struct {
		result *CheckResult
		err    error
	}
	type insightOut struct {
		report *InsightReport
		err    error
	}

	checkCh := make(chan checkOut, 1)
	insightCh := make(chan insightOut, 1)

	go func() {
		result, err := c.Check(ctx, transcript, policy)
		checkCh <- checkOut{result, err}
	}()
	go func() {
		report, err := c.Insights(ctx, transcript, policy)
		insightCh <- insightOut{report, err}
	}()

	check := <-checkCh
	insight := <-insightCh

	if check.err != nil {
		return nil, nil, check.err
	}
	if insight.err != nil {
		return check.result, nil, nil
	}
	return check.result, insight.report, nil
}
