package checker

// Verdict outcome tokens the auditor prompt asks for. Anything else the
// model emits is tolerated and counted in the Unknown bucket.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
	VerdictSkip = "SKIP"
)

// Verdict is one rule evaluation from a compliance check.
type Verdict struct {
	Category  string `json:"category"`
	Rule      string `json:"rule"`
	Verdict   string `json:"verdict"`
	Reasoning string `json:"reasoning"`
}

// CheckResult holds the verdicts and overall summary for one session check.
type CheckResult struct {
	Verdicts []Verdict `json:"verdicts"`
	Summary  string    `json:"summary"`
}

// Counts tallies verdicts by outcome.
type Counts struct {
	Pass    int
	Fail    int
	Skip    int
	Unknown int
}

// Total returns the number of counted verdicts.
func (c Counts) Total() int {
	return c.Pass + c.Fail + c.Skip + c.Unknown
}

// CountVerdicts tallies a verdict list by outcome.
func CountVerdicts(verdicts []Verdict) Counts {
	var c Counts
	for _, v := range verdicts {
		switch v.Verdict {
		case VerdictPass:
			c.Pass++
		case VerdictFail:
			c.Fail++
		case VerdictSkip:
			c.Skip++
		default:
			c.Unknown++
		}
	}
	return c
}

// CategoryGroup is a run of verdicts sharing a category.
type CategoryGroup struct {
	Category string
	Verdicts []Verdict
}

// defaultCategory buckets verdicts the model returned without a category.
const defaultCategory = "General"

// GroupByCategory groups verdicts by category in order of first appearance.
// The ordering is stable so repeated runs over the same result render
// identically.
func GroupByCategory(verdicts []Verdict) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, v := range verdicts {
		cat := v.Category
		if cat == "" {
			cat = defaultCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}
		groups[i].Verdicts = append(groups[i].Verdicts, v)
	}
	return groups
}
