// Package specialists implements the four rule-based reasoning components of
// the decision-support core: product search, dosage calculation, drug
// interaction checking and insurance coverage advice. Specialists are pure
// reads over the catalog; they never mutate shared state.
package specialists

import "errors"

// Tag identifies which specialist produced a result.
type Tag string

const (
	TagInteractions Tag = "interactions"
	TagDosage       Tag = "dosage"
	TagCoverage     Tag = "coverage"
	TagSearch       Tag = "search"
)

// Match grades how well a specialist's findings fit the query.
type Match string

const (
	MatchExact   Match = "exact"
	MatchPartial Match = "partial"
	MatchNone    Match = "none"
)

// Result is the uniform envelope every specialist invocation produces, even
// on failure. Failures are carried in Err and Caveats so one specialist's
// error never suppresses another's findings.
type Result struct {
	Specialist Tag      `json:"specialist"`
	Payload    any      `json:"payload,omitempty"`
	Match      Match    `json:"match"`
	Caveats    []string `json:"caveats,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// Error taxonomy. These are recovered at the orchestration boundary and
// surfaced as caveats, never propagated to the caller.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoApplicableRule = errors.New("no applicable dosage rule")
	ErrAmbiguousRule    = errors.New("ambiguous dosage rule")
)
