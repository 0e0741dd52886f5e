package checker

import "encoding/json"

// InsightItem is a single coaching observation with its supporting evidence.
// Pattern is set for what_went_well / what_to_improve items, Observation for
// notable items.
type InsightItem struct {
	Pattern     string `json:"pattern,omitempty"`
	Observation string `json:"observation,omitempty"`
	Evidence    string `json:"evidence"`
}

// Headline returns the item's lead text regardless of slot.
func (i InsightItem) Headline() string {
	if i.Pattern != "" {
		return i.Pattern
	}
	return i.Observation
}

// InsightReport holds validated coaching feedback. All three lists are
// always present after ValidateInsights, possibly empty.
type InsightReport struct {
	WhatWentWell  []InsightItem `json:"what_went_well"`
	WhatToImprove []InsightItem `json:"what_to_improve"`
	Notable       []InsightItem `json:"notable"`
}

// Empty reports whether the report carries no items at all.
func (r *InsightReport) Empty() bool {
	return len(r.WhatWentWell) == 0 && len(r.WhatToImprove) == 0 && len(r.Notable) == 0
}

// ValidateInsights normalizes an arbitrary recovered value into a well-formed
// report. A misbehaving model may return a non-object, omit lists, or emit
// items missing their required keys; all of that degrades to dropped items or
// the all-empty default. This never fails.
func ValidateInsights(raw json.RawMessage) *InsightReport {
	report := &InsightReport{
		WhatWentWell:  []InsightItem{},
		WhatToImprove: []InsightItem{},
		Notable:       []InsightItem{},
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return report
	}

	report.WhatWentWell = filterItems(top["what_went_well"], "pattern")
	report.WhatToImprove = filterItems(top["what_to_improve"], "pattern")
	report.Notable = filterItems(top["notable"], "observation")
	return report
}

// filterItems keeps the items that are objects carrying both the lead key and
// "evidence", in their original order. Everything else is silently dropped.
func filterItems(raw json.RawMessage, leadKey string) []InsightItem {
	items := []InsightItem{}
	if raw == nil {
		return items
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return items
	}

	for _, rawEntry := range list {
		var entry map[string]any
		if err := json.Unmarshal(rawEntry, &entry); err != nil || entry == nil {
			continue
		}
		lead, hasLead := entry[leadKey]
		evidence, hasEvidence := entry["evidence"]
		if !hasLead || !hasEvidence {
			continue
		}
		item := InsightItem{Evidence: asString(evidence)}
		if leadKey == "pattern" {
			item.Pattern = asString(lead)
		} else {
			item.Observation = asString(lead)
		}
		items = append(items, item)
	}
	return items
}

// asString renders a JSON value as display text; non-strings keep their JSON
// encoding.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
