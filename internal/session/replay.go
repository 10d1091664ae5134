package session

import (
	"github.com/roach88/keycalc/internal/ir"
)

// Replay presses the keys recorded on tape in a new session built from
// opts and checks that every produced step matches the recorded one.
//
// The new session must start from the same initial state and resolve keys
// the same way as the original, so pass the same WithState and
// WithResolver options. Seq values match when both clocks start at 0.
//
// On divergence the replayed session is still returned alongside a
// *ReplayError describing the first differing step.
func Replay(tape ir.Tape, opts ...Option) (*Session, error) {
	s := New(opts...)

	for _, key := range tape.Keys() {
		if _, err := s.Press(key); err != nil {
			return s, err
		}
	}

	got := s.Tape().Steps
	want := tape.Steps
	n := max(len(got), len(want))
	for i := 0; i < n; i++ {
		var expected, actual ir.Step
		if i < len(want) {
			expected = want[i]
		}
		if i < len(got) {
			actual = got[i]
		}
		if expected != actual {
			return s, &ReplayError{Index: i, Expected: expected, Actual: actual}
		}
	}
	return s, nil
}
