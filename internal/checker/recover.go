package checker

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models often ignore "return ONLY valid JSON" and wrap their answer in a
// result envelope, a markdown fence, or conversational prose. RecoverJSON
// runs an ordered chain of unwrapping attempts, from the most specific
// signal to brute force, and returns the first candidate that decodes.
// Each step is a pure transformation so the chain can be tested with canned
// text and audited step by step.

// fenceRe matches a markdown code fence with an optional json language tag.
// Case-insensitive, dot matches newlines, non-greedy interior.
var fenceRe = regexp.MustCompile("(?is)```(?:json)?\\s*\n?(.*?)\n?\\s*```")

// RecoverJSON extracts a decodable JSON value from a raw model reply.
// The returned bytes are guaranteed to unmarshal; callers decode them into
// their own types. The error from a fully unrecoverable reply includes the
// raw text so the operator can see exactly what the model said.
func RecoverJSON(raw string) (json.RawMessage, error) {
	text := strings.TrimSpace(raw)
	text = unwrapEnvelope(text)
	text = extractFence(text)

	if msg, ok := tryDecode(text); ok {
		return msg, nil
	}
	if msg, ok := rescueBraces(text); ok {
		return msg, nil
	}
	return nil, fmt.Errorf("parse model response as JSON failed\nraw output:\n%s", text)
}

// unwrapEnvelope handles the claude -p --output-format json wrapper: a JSON
// object whose "result" field carries the model's actual answer as a string.
// Anything that doesn't match that shape passes through unchanged.
func unwrapEnvelope(text string) string {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		return text
	}
	inner, ok := wrapper["result"]
	if !ok {
		return text
	}
	var s string
	if err := json.Unmarshal(inner, &s); err != nil {
		return text
	}
	return strings.TrimSpace(s)
}

// extractFence pulls the interior of the first markdown code fence, if any,
// tolerating prose before and after it.
func extractFence(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// tryDecode reports whether text is valid JSON as-is.
func tryDecode(text string) (json.RawMessage, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return json.RawMessage(text), true
}

// rescueBraces is the last resort: decode the outermost {...} span. Outermost
// rather than first-closing so a complete object with nested braces survives;
// if the text holds two unrelated objects side by side this span won't decode
// and recovery fails, which matches the upstream behavior.
func rescueBraces(text string) (json.RawMessage, bool) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last <= first {
		return nil, false
	}
	return tryDecode(text[first : last+1])
}
