package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/keycalc/internal/ir"
)

// TraceSnapshot is the golden-file form of a scenario run.
type TraceSnapshot struct {
	Scenario  string    `json:"scenario"`
	SessionID string    `json:"session_id"`
	Steps     []ir.Step `json:"steps"`
}

// MarshalCanonical encodes the snapshot as canonical JSON.
func (s TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(ir.IRObject{
		"scenario":   ir.IRString(s.Scenario),
		"session_id": ir.IRString(s.SessionID),
		"steps":      ir.StepsIR(s.Steps),
	})
}

// RunWithGolden executes a scenario and compares its steps against
// testdata/golden/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		Scenario:  name,
		SessionID: result.SessionID,
		Steps:     result.Steps,
	}
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
