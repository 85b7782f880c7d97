package client

import (
	"encoding/json"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule comparison
// ─────────────────────────────────────────────────────────────────────────────

// TopicInfo describes a legal topic known to the catalog.
type TopicInfo struct {
	Topic       string `json:"topic"`
	Category    string `json:"category"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Threshold is the payload of a threshold-kind rule variant.
type Threshold struct {
	Name   string  `json:"name"`
	Cutoff float64 `json:"cutoff"`
	Unit   string  `json:"unit,omitempty"`
}

// Variant is one jurisdiction's version of a rule.  Payloads other than
// Threshold are kept raw.
type Variant struct {
	Kind          string          `json:"kind"`
	Threshold     *Threshold      `json:"threshold,omitempty"`
	Flag          json.RawMessage `json:"flag,omitempty"`
	Cap           json.RawMessage `json:"cap,omitempty"`
	Citation      string          `json:"citation,omitempty"`
	EffectiveDate *time.Time      `json:"effective_date,omitempty"`
}

// Position is a group of jurisdictions sharing an equivalent variant.
type Position struct {
	Variant       Variant  `json:"variant"`
	Count         int      `json:"count"`
	Jurisdictions []string `json:"jurisdictions"`
}

// Comparison is the result of comparing one topic across jurisdictions.
type Comparison struct {
	Topic          string              `json:"topic"`
	Jurisdictions  []string            `json:"jurisdictions"`
	Majority       *Position           `json:"majority,omitempty"`
	Minority       []Position          `json:"minority"`
	ByJurisdiction map[string]*Variant `json:"by_jurisdiction"`
	Unknown        []string            `json:"unknown"`
	Unregistered   []string            `json:"unregistered"`
	Similarity     [][]float64         `json:"similarity"`
}

// CompareRequest is the body of a comparison.
type CompareRequest struct {
	Topic         string   `json:"topic"`
	Jurisdictions []string `json:"jurisdictions"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Choice of law
// ─────────────────────────────────────────────────────────────────────────────

// Factor is a connecting factor pointing at a jurisdiction.
type Factor struct {
	Kind         string `json:"kind"`
	Jurisdiction string `json:"jurisdiction"`
}

// Interest is a governmental interest asserted by a jurisdiction.
type Interest struct {
	Jurisdiction string `json:"jurisdiction"`
	Policy       string `json:"policy,omitempty"`
	Legitimate   bool   `json:"legitimate"`
}

// FactPattern describes the dispute.
type FactPattern struct {
	Category    string     `json:"category,omitempty"`
	Topic       string     `json:"topic,omitempty"`
	Factors     []Factor   `json:"factors"`
	Interests   []Interest `json:"interests,omitempty"`
	PolicyNotes []string   `json:"policy_notes,omitempty"`
}

// ChoiceOfLawRequest is the body of a choice-of-law analysis.
type ChoiceOfLawRequest struct {
	FactPattern FactPattern        `json:"fact_pattern"`
	Forum       string             `json:"forum"`
	Approach    string             `json:"approach,omitempty"`
	Qualities   map[string]float64 `json:"qualities,omitempty"`
}

// TraceEntry is one step of the analysis.
type TraceEntry struct {
	Factor       string  `json:"factor"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Note         string  `json:"note,omitempty"`
}

// CandidateScore is the final score of one candidate jurisdiction.
type CandidateScore struct {
	Jurisdiction string  `json:"jurisdiction"`
	Score        float64 `json:"score"`
}

// ChoiceOfLawResult is the outcome of a choice-of-law analysis.
type ChoiceOfLawResult struct {
	Selected     string           `json:"selected"`
	Approach     string           `json:"approach"`
	Confidence   float64          `json:"confidence"`
	Trace        []TraceEntry     `json:"trace"`
	Reasoning    string           `json:"reasoning"`
	Candidates   []CandidateScore `json:"candidates,omitempty"`
	Excluded     []string         `json:"excluded"`
	Conflict     string           `json:"conflict,omitempty"`
	AutoSelected bool             `json:"auto_selected"`
	States       []string         `json:"states"`
}

// ApproachSelection is the approach a forum applies.
type ApproachSelection struct {
	Forum    string `json:"forum"`
	Approach string `json:"approach"`
	Listed   bool   `json:"listed"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Case law
// ─────────────────────────────────────────────────────────────────────────────

// Holding is one issue decided by a court.
type Holding struct {
	Issue      string `json:"issue"`
	Reasoning  string `json:"reasoning,omitempty"`
	Conclusion string `json:"conclusion"`
}

// Party is a litigant.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Decision is a court decision in the case law index.
type Decision struct {
	ID            string    `json:"id"`
	CaseNumber    string    `json:"case_number"`
	Title         string    `json:"title,omitempty"`
	Date          time.Time `json:"date"`
	CourtLevel    string    `json:"court_level"`
	Court         string    `json:"court,omitempty"`
	Jurisdiction  string    `json:"jurisdiction,omitempty"`
	Topic         string    `json:"topic,omitempty"`
	Outcome       string    `json:"outcome,omitempty"`
	Summary       string    `json:"summary"`
	Holdings      []Holding `json:"holdings"`
	Parties       []Party   `json:"parties,omitempty"`
	CitedStatutes []string  `json:"cited_statutes,omitempty"`
}

// NewDecision is the body used to add a decision.  Date is YYYY-MM-DD.
type NewDecision struct {
	ID            string    `json:"id"`
	CaseNumber    string    `json:"case_number"`
	Title         string    `json:"title,omitempty"`
	Date          string    `json:"date"`
	CourtLevel    string    `json:"court_level"`
	Court         string    `json:"court,omitempty"`
	Jurisdiction  string    `json:"jurisdiction,omitempty"`
	Topic         string    `json:"topic,omitempty"`
	Outcome       string    `json:"outcome,omitempty"`
	Summary       string    `json:"summary"`
	Holdings      []Holding `json:"holdings,omitempty"`
	Parties       []Party   `json:"parties,omitempty"`
	CitedStatutes []string  `json:"cited_statutes,omitempty"`
}

// SearchRequest is a keyword query over the case law index.
type SearchRequest struct {
	Keywords   []string `json:"keywords"`
	CourtLevel string   `json:"court_level,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// SearchResult is one ranked decision.
type SearchResult struct {
	Decision *Decision `json:"decision"`
	Score    float64   `json:"score"`
}

// SearchResponse is the ranked result list.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Administration
// ─────────────────────────────────────────────────────────────────────────────

// SnapshotInfo summarises the snapshot a server is answering from.
type SnapshotInfo struct {
	Generation    uint64    `json:"generation"`
	LoadedAt      time.Time `json:"loaded_at"`
	Jurisdictions int       `json:"jurisdictions"`
	Rules         int       `json:"rules"`
	Decisions     int       `json:"decisions"`
	Terms         int       `json:"terms"`
}

//Personal.AI order the ending
