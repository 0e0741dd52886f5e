package checker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer returns canned replies keyed on which prompt it receives, so
// checker behavior is testable without spawning anything.
type fakeAnalyzer struct {
	checkReply   string
	checkErr     error
	insightReply string
	insightErr   error
	calls        atomic.Int32
}

func (f *fakeAnalyzer) Analyze(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if strings.HasPrefix(prompt, "You are a development coach") {
		return f.insightReply, f.insightErr
	}
	return f.checkReply, f.checkErr
}

func TestCheck(t *testing.T) {
	fake := &fakeAnalyzer{checkReply: sampleJSON}
	c := New(fake)

	result, err := c.Check(context.Background(), "transcript", "policy")
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, "Security", result.Verdicts[0].Category)
	assert.Equal(t, VerdictPass, result.Verdicts[0].Verdict)
	assert.Equal(t, "Clean session.", result.Summary)
}

func TestCheck_FencedReply(t *testing.T) {
	fake := &fakeAnalyzer{checkReply: "Here you go:\n```json\n" + sampleJSON + "\n```"}
	c := New(fake)

	result, err := c.Check(context.Background(), "t", "p")
	require.NoError(t, err)
	assert.Len(t, result.Verdicts, 1)
}

func TestCheck_AnalyzerError(t *testing.T) {
	fake := &fakeAnalyzer{checkErr: ErrClaudeNotFound}
	c := New(fake)

	_, err := c.Check(context.Background(), "t", "p")
	assert.ErrorIs(t, err, ErrClaudeNotFound)
}

func TestCheck_UnrecoverableReply(t *testing.T) {
	fake := &fakeAnalyzer{checkReply: "no json here at all"}
	c := New(fake)

	_, err := c.Check(context.Background(), "t", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no json here at all")
}

func TestCheck_WrongShape(t *testing.T) {
	fake := &fakeAnalyzer{checkReply: `{"verdicts": "should be a list"}`}
	c := New(fake)

	_, err := c.Check(context.Background(), "t", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdict shape")
}

func TestInsights(t *testing.T) {
	fake := &fakeAnalyzer{insightReply: `{"what_went_well":[{"pattern":"p","evidence":"e"}]}`}
	c := New(fake)

	report, err := c.Insights(context.Background(), "t", "p")
	require.NoError(t, err)
	require.Len(t, report.WhatWentWell, 1)
	assert.NotNil(t, report.WhatToImprove)
	assert.NotNil(t, report.Notable)
}

func TestInsights_MalformedShapeDegrades(t *testing.T) {
	fake := &fakeAnalyzer{insightReply: `{"unexpected": true}`}
	c := New(fake)

	report, err := c.Insights(context.Background(), "t", "p")
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

func TestCheckWithInsights(t *testing.T) {
	fake := &fakeAnalyzer{
		checkReply:   sampleJSON,
		insightReply: `{"notable":[{"observation":"o","evidence":"e"}]}`,
	}
	c := New(fake)

	result, report, err := c.CheckWithInsights(context.Background(), "t", "p")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, report)
	assert.Len(t, report.Notable, 1)
	assert.Equal(t, int32(2), fake.calls.Load(), "both calls issued")
}

func TestCheckWithInsights_InsightFailureSwallowed(t *testing.T) {
	fake := &fakeAnalyzer{
		checkReply: sampleJSON,
		insightErr: errors.New("insight call blew up"),
	}
	c := New(fake)

	result, report, err := c.CheckWithInsights(context.Background(), "t", "p")
	require.NoError(t, err, "insight failure must not abort the check")
	require.NotNil(t, result)
	assert.Nil(t, report)
}

func TestCheckWithInsights_CheckFailureFatal(t *testing.T) {
	fake := &fakeAnalyzer{
		checkErr:     errors.New("check call failed"),
		insightReply: `{}`,
	}
	c := New(fake)

	result, report, err := c.CheckWithInsights(context.Background(), "t", "p")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, report)
}
