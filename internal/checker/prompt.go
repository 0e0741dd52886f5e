package checker

import "strings"

// checkSystemPrompt instructs the model to act as a compliance auditor and
// return the verdicts JSON shape.
const checkSystemPrompt = `You are a compliance auditor for AI coding sessions. You will receive a session transcript and a policy document organized into sections (e.g., Security, Developer Engagement, Process Discipline).

Evaluate each section INDEPENDENTLY. A violation in one section must not influence your judgment in another. For each rule, base your verdict only on what is visible in the transcript.

Evaluation guidance:
- For pattern-based rules (credential exposure, destructive commands): scan for specific indicators in user messages, assistant messages, and tool_use blocks (Bash, Write, Edit, Read).
- For behavioral rules (engagement, review discipline): assess the overall conversational pattern across the session — who drives the work, how the developer responds to AI output, and whether the developer demonstrates understanding.
- For process rules (scope, testing): look at the session arc — does it have structure, does it stay focused, are there checkpoints?

Return ONLY valid JSON — no markdown fences, no commentary outside the JSON.

Response format:
{
  "verdicts": [
    {
      "category": "Section name",
      "rule": "Rule name",
      "verdict": "PASS" | "FAIL" | "SKIP",
      "reasoning": "One sentence explanation"
    }
  ],
  "summary": "One paragraph overall assessment"
}

Verdict meanings:
- PASS: The session clearly complies with this rule.
- FAIL: The session clearly violates this rule.
- SKIP: The rule is not applicable to this session (e.g., no code was written, so testing rules don't apply).

You MUST evaluate every rule in the policy. Be fair but firm.`

// insightSystemPrompt instructs the model to act as a development coach and
// return the insights JSON shape.
const insightSystemPrompt = `You are a development coach reviewing an AI coding session transcript. Your goal is to provide actionable, evidence-based feedback on how the session went.

Focus on:
- Interaction patterns: How did the developer and AI collaborate?
- Decision quality: Were good choices made about scope, approach, and delegation?
- Efficiency: Was time spent well? Were there unnecessary detours?
- Process: Was there testing, review, or structured thinking?

Every insight MUST cite specific evidence from the transcript.

Return ONLY valid JSON — no markdown fences, no commentary outside the JSON.

Response format:
{
  "what_went_well": [
    {"pattern": "Short description of positive pattern", "evidence": "Specific quote or reference from transcript"}
  ],
  "what_to_improve": [
    {"pattern": "Short description of improvement area", "evidence": "Specific quote or reference from transcript"}
  ],
  "notable": [
    {"observation": "Interesting observation", "evidence": "Specific quote or reference from transcript"}
  ]
}

Guidelines:
- Provide 1-3 items per section. Empty sections are fine if nothing applies.
- Be specific and constructive, not generic.
- Base everything on what actually happened in the transcript.`

// PromptPrefixes are the opening lines of ailint's own analysis prompts.
// Session discovery uses them to skip the claude -p sessions ailint itself
// creates.
var PromptPrefixes = []string{
	"You are a compliance auditor for AI coding sessions.",
	"You are a development coach reviewing an AI coding session transcript.",
}

// buildCheckPrompt assembles the compliance-audit prompt from the system
// instructions plus delimited POLICY and TRANSCRIPT sections.
func buildCheckPrompt(transcript, policy string) string {
	var sb strings.Builder
	sb.WriteString(checkSystemPrompt)
	sb.WriteString("\n\n---\nPOLICY:\n")
	sb.WriteString(policy)
	sb.WriteString("\n\n---\nTRANSCRIPT:\n")
	sb.WriteString(transcript)
	return sb.String()
}

// buildInsightPrompt assembles the coaching prompt. The policy rides along
// for context on what the team values.
func buildInsightPrompt(transcript, policy string) string {
	var sb strings.Builder
	sb.WriteString(insightSystemPrompt)
	sb.WriteString("\n\n---\nPOLICY (for context on what the team values):\n")
	sb.WriteString(policy)
	sb.WriteString("\n\n---\nTRANSCRIPT:\n")
	sb.WriteString(transcript)
	return sb.String()
}
