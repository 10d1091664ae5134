package calc

import (
	"fmt"
	"strings"
)

// AngleMode selects the unit used by trigonometric functions.
type AngleMode int

const (
	// Degrees is the zero value and the mode a new State starts in.
	Degrees AngleMode = iota
	// Radians leaves trig input and inverse trig output unconverted.
	Radians
)

// String returns the status-line label ("DEG" or "RAD").
func (m AngleMode) String() string {
	if m == Radians {
		return "RAD"
	}
	return "DEG"
}

// Toggle returns the other angle mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radians {
		return Degrees
	}
	return Radians
}

// ParseAngleMode accepts "deg", "degrees", "rad" and "radians" in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	default:
		return Degrees, fmt.Errorf("unknown angle mode %q: must be deg or rad", s)
	}
}

// State is the complete engine state for one calculator session.
//
// State is a value type. Apply never mutates its argument; it returns an
// updated copy. The first operand is unexported so the only way to obtain
// a pending operation is through Apply, which keeps operand and operator
// set together.
type State struct {
	// Display is the text currently shown.
	Display string

	// Operator is the pending binary operator, OpNone when nothing is pending.
	Operator BinaryOp

	// Awaiting is true right after an operator, a unary function or a
	// memory command: the next digit replaces Display instead of appending.
	Awaiting bool

	// Evaluated is true right after Equals produced a result: the next digit
	// starts a new calculation.
	Evaluated bool

	// Memory is the single memory register. Only a memory clear resets it.
	Memory float64

	// Angle is the unit for sin/cos/tan and their inverses.
	Angle AngleMode

	operand float64
}

// Option configures a State created by New.
type Option func(*State)

// WithAngleMode sets the initial angle mode.
func WithAngleMode(m AngleMode) Option {
	return func(s *State) {
		s.Angle = m
	}
}

// WithMemory sets the initial memory register.
func WithMemory(v float64) Option {
	return func(s *State) {
		s.Memory = v
	}
}

// New returns the initial session state: display "0", nothing pending,
// memory 0 and degrees.
func New(opts ...Option) State {
	s := State{Display: "0"}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// FirstOperand returns the left-hand operand of the pending operation.
// ok is false when no operation is pending.
func (s State) FirstOperand() (v float64, ok bool) {
	if s.Operator == OpNone {
		return 0, false
	}
	return s.operand, true
}

// Pending describes the pending operation as "<operand> <operator>",
// e.g. "8 *". It is empty when nothing is pending.
func (s State) Pending() string {
	v, ok := s.FirstOperand()
	if !ok {
		return ""
	}
	return FormatNumber(v) + " " + s.Operator.String()
}

// Value returns the numeric value of the display.
func (s State) Value() float64 {
	v, err := ParseDisplay(s.Display)
	if err != nil {
		// Unreachable for states built by Apply.
		return nan()
	}
	return v
}

// Render returns the text to show for s.
func Render(s State) string {
	return s.Display
}

// Status is the data behind the scientific panel's status line.
type Status struct {
	Display  string `json:"display"`
	Memory   string `json:"memory"`
	Angle    string `json:"angle"`
	Pending  string `json:"pending,omitempty"`
	Awaiting bool   `json:"awaiting"`
}

// StatusOf summarizes s for status indicators.
func StatusOf(s State) Status {
	return Status{
		Display:  s.Display,
		Memory:   FormatNumber(s.Memory),
		Angle:    s.Angle.String(),
		Pending:  s.Pending(),
		Awaiting: s.Awaiting,
	}
}

// String renders the status line, e.g. "Memory: 7  Mode: DEG".
func (st Status) String() string {
	return fmt.Sprintf("Memory: %s  Mode: %s", st.Memory, st.Angle)
}
