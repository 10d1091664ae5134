package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the steps so the failure can be traced key by key.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Steps    []ir.Step // Full tape for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nSteps:\n")
	for _, s := range e.Steps {
		fmt.Fprintf(&buf, "  [%d] %s -> %s\n", s.Seq, s.Command, s.Display)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the final state and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	final := result.Final
	switch a.Type {
	case AssertDisplay:
		return compareField(a.Type, a.Value, final.Display, result.Steps)
	case AssertMemory:
		return compareField(a.Type, a.Value, final.Memory, result.Steps)
	case AssertAngle:
		return compareField(a.Type, strings.ToUpper(a.Value), final.Angle, result.Steps)
	case AssertPending:
		return compareField(a.Type, a.Value, final.Pending, result.Steps)
	case AssertSentinel:
		if !calc.IsSentinel(final.Display) {
			return &AssertionError{
				Type:     a.Type,
				Expected: "a sentinel display (NaN, Infinity, -Infinity)",
				Actual:   fmt.Sprintf("%q", final.Display),
				Steps:    result.Steps,
			}
		}
		if a.Value != "" {
			return compareField(a.Type, a.Value, final.Display, result.Steps)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func compareField(typ, want, got string, steps []ir.Step) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q", got),
		Steps:    steps,
	}
}

// checkExpectation compares the last step of a press against e.
func checkExpectation(e Expectation, step ir.Step) []string {
	var errs []string
	check := func(field string, want *string, got string) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("after press %d: %s: expected %q, got %q", e.After, field, *want, got))
		}
	}
	check("display", e.Display, step.Display)
	check("memory", e.Memory, step.Memory)
	if e.Angle != nil {
		want := strings.ToUpper(*e.Angle)
		check("angle", &want, step.Angle)
	}
	check("pending", e.Pending, step.Pending)
	return errs
}
