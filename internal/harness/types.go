package harness

import (
	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// SessionID is the fixed ID the scenario ran under.
	SessionID string `json:"session_id"`

	// Steps is the full tape, one entry per applied command.
	Steps []ir.Step `json:"steps"`

	// Final is the state after the last key press.
	Final calc.Status `json:"final"`

	// Hash fingerprints Steps (ir.TapeHash).
	Hash string `json:"hash"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []ir.Step{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
