package choiceoflaw

import (
	"fmt"
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
)

// Confidence levels used by the fixed-outcome doctrines.
const (
	ConfidencePrimaryFactor  = 1.0
	ConfidenceFallbackFactor = 0.6
	ConfidenceFalseConflict  = 0.9
	ConfidencePolicyDefault  = 0.5
)

// Conflict classifies a dispute under interest analysis.
type Conflict string

const (
	ConflictNone       Conflict = ""
	ConflictFalse      Conflict = "false_conflict"
	ConflictTrue       Conflict = "true_conflict"
	ConflictUnprovided Conflict = "unprovided_for"
)

// TraceEntry is one step of the factor trace.
type TraceEntry struct {
	Factor       string  `json:"factor"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Note         string  `json:"note,omitempty"`
}

// CandidateScore is the score one candidate jurisdiction received.
type CandidateScore struct {
	Jurisdiction string  `json:"jurisdiction"`
	Score        float64 `json:"score"`
}

// Result is the outcome of one choice-of-law analysis.
type Result struct {
	Selected   jurisdiction.ID  `json:"selected"`
	Approach   Approach         `json:"approach"`
	Confidence float64          `json:"confidence"`
	Trace      []TraceEntry     `json:"trace"`
	Reasoning  string           `json:"reasoning"`
	Candidates []CandidateScore `json:"candidates,omitempty"`
	// Excluded lists unknown jurisdictions dropped from the analysis.
	Excluded []string `json:"excluded"`
	Conflict Conflict `json:"conflict,omitempty"`
	// AutoSelected is true when the approach came from the forum table.
	AutoSelected bool    `json:"auto_selected"`
	States       []State `json:"states"`
}

// Summary renders a one-line description of r.
func (r *Result) Summary() string {
	return fmt.Sprintf("%s law applies under %s (confidence %.2f)", r.Selected, r.Approach, r.Confidence)
}

type reasoning struct {
	lines []string
}

func (b *reasoning) addf(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *reasoning) String() string {
	return strings.Join(b.lines, " ")
}

func newResult(approach Approach, c *collected) *Result {
	trace := make([]TraceEntry, 0, len(c.notes)+len(c.factors))
	trace = append(trace, c.notes...)
	excluded := make([]string, len(c.excluded))
	copy(excluded, c.excluded)
	return &Result{Approach: approach, Trace: trace, Excluded: excluded}
}

//Personal.AI order the ending
