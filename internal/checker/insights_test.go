package checker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInsights_EmptyObject(t *testing.T) {
	report := ValidateInsights(json.RawMessage(`{}`))
	require.NotNil(t, report)
	assert.Empty(t, report.WhatWentWell)
	assert.Empty(t, report.WhatToImprove)
	assert.Empty(t, report.Notable)
	assert.True(t, report.Empty())
}

func TestValidateInsights_NonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"just a string"`, `42`, `null`} {
		t.Run(raw, func(t *testing.T) {
			report := ValidateInsights(json.RawMessage(raw))
			require.NotNil(t, report)
			assert.True(t, report.Empty())
			assert.NotNil(t, report.WhatWentWell)
			assert.NotNil(t, report.WhatToImprove)
			assert.NotNil(t, report.Notable)
		})
	}
}

func TestValidateInsights_ValidItems(t *testing.T) {
	raw := json.RawMessage(`{
		"what_went_well": [{"pattern": "Clear scoping", "evidence": "User narrowed the task up front"}],
		"what_to_improve": [{"pattern": "Review discipline", "evidence": "Accepted diffs without reading"}],
		"notable": [{"observation": "Long debugging detour", "evidence": "20 messages on one test failure"}]
	}`)

	report := ValidateInsights(raw)
	require.Len(t, report.WhatWentWell, 1)
	require.Len(t, report.WhatToImprove, 1)
	require.Len(t, report.Notable, 1)

	assert.Equal(t, "Clear scoping", report.WhatWentWell[0].Pattern)
	assert.Equal(t, "User narrowed the task up front", report.WhatWentWell[0].Evidence)
	assert.Equal(t, "Long debugging detour", report.Notable[0].Observation)
	assert.Equal(t, "Long debugging detour", report.Notable[0].Headline())
}

func TestValidateInsights_DropsItemsMissingKeys(t *testing.T) {
	raw := json.RawMessage(`{
		"what_went_well": [
			{"pattern": "Good tests", "evidence": "Ran the suite after each change"},
			{"pattern": "Missing evidence field"},
			{"evidence": "Missing pattern field"},
			"not an object",
			{"pattern": "Also valid", "evidence": "Second valid item"}
		]
	}`)

	report := ValidateInsights(raw)
	require.Len(t, report.WhatWentWell, 2, "invalid items dropped, valid siblings kept")
	assert.Equal(t, "Good tests", report.WhatWentWell[0].Pattern)
	assert.Equal(t, "Also valid", report.WhatWentWell[1].Pattern)
}

func TestValidateInsights_NotableRequiresObservation(t *testing.T) {
	raw := json.RawMessage(`{
		"notable": [
			{"pattern": "Wrong key for this slot", "evidence": "e"},
			{"observation": "Right key", "evidence": "e"}
		]
	}`)

	report := ValidateInsights(raw)
	require.Len(t, report.Notable, 1)
	assert.Equal(t, "Right key", report.Notable[0].Observation)
}

func TestValidateInsights_IgnoresUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{
		"what_went_well": [{"pattern": "p", "evidence": "e"}],
		"confidence": 0.9,
		"extra": {"anything": true}
	}`)

	report := ValidateInsights(raw)
	assert.Len(t, report.WhatWentWell, 1)
	assert.Empty(t, report.WhatToImprove)
	assert.Empty(t, report.Notable)
}

func TestValidateInsights_NonListSection(t *testing.T) {
	raw := json.RawMessage(`{"what_went_well": "should have been a list"}`)
	report := ValidateInsights(raw)
	assert.Empty(t, report.WhatWentWell)
}

func TestValidateInsights_NonStringValues(t *testing.T) {
	raw := json.RawMessage(`{"notable": [{"observation": 3, "evidence": ["a", "b"]}]}`)
	report := ValidateInsights(raw)
	require.Len(t, report.Notable, 1)
	assert.Equal(t, "3", report.Notable[0].Observation)
	assert.Equal(t, `["a","b"]`, report.Notable[0].Evidence)
}
