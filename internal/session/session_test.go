package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/ir"
	"github.com/roach88/keycalc/internal/testutil"
)

// macroResolver maps "0." to two commands and defers to tokens otherwise.
type macroResolver struct{}

func (macroResolver) Resolve(key string) ([]calc.Command, error) {
	if key == "0." {
		return []calc.Command{calc.Digit('0'), calc.Decimal()}, nil
	}
	return TokenResolver{}.Resolve(key)
}

type emptyResolver struct{}

func (emptyResolver) Resolve(string) ([]calc.Command, error) { return nil, nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithIDGenerator(testutil.NewFixedSessionIDGenerator("session-1")),
		WithClock(testutil.NewDeterministicClock()),
		WithLogger(quietLogger()),
	}
	return New(append(base, opts...)...)
}

func pressAll(t *testing.T, s *Session, line string) {
	t.Helper()
	for _, key := range testutil.Keys(line) {
		_, err := s.Press(key)
		require.NoError(t, err, "key %q", key)
	}
}

func TestSession_New(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, "session-1", s.ID())
	assert.Equal(t, "0", s.Display())
	assert.Empty(t, s.Tape().Steps)
}

func TestSession_DefaultIDIsUUID(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	assert.Len(t, s.ID(), 36)
	assert.NotEqual(t, s.ID(), New(WithLogger(quietLogger())).ID())
}

func TestSession_Press(t *testing.T) {
	s := newTestSession(t)
	pressAll(t, s, "5 + 3 =")

	assert.Equal(t, "8", s.Display())

	tape := s.Tape()
	require.Len(t, tape.Steps, 4)
	assert.Equal(t, "session-1", tape.SessionID)
	assert.Equal(t, ir.IRVersion, tape.IRVersion)

	for i, step := range tape.Steps {
		assert.Equal(t, int64(i+1), step.Seq)
		assert.Equal(t, int64(i+1), step.Press)
	}

	assert.Equal(t, ir.Step{
		Seq: 2, Press: 2, Key: "+", Command: "+",
		Display: "5", Pending: "5 +", Memory: "0", Angle: "DEG", Awaiting: true,
	}, tape.Steps[1])
	assert.Equal(t, []string{"5", "+", "3", "="}, tape.Keys())
}

func TestSession_PressUnknownKey(t *testing.T) {
	s := newTestSession(t)
	pressAll(t, s, "4")

	steps, err := s.Press("sinh")
	require.Error(t, err)
	assert.Nil(t, steps)
	assert.True(t, IsUnknownKey(err))

	var te *calc.TokenError
	assert.True(t, errors.As(err, &te), "token error should be wrapped")

	var se *SessionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "session-1", se.SessionID)
	assert.Equal(t, "sinh", se.Key)

	assert.Equal(t, "4", s.Display())
	assert.Len(t, s.Tape().Steps, 1)
}

func TestSession_PressEmptyResolution(t *testing.T) {
	s := newTestSession(t, WithResolver(emptyResolver{}))

	_, err := s.Press("anything")
	assert.True(t, IsUnknownKey(err))
}

func TestSession_MacroKey(t *testing.T) {
	s := newTestSession(t, WithResolver(macroResolver{}))
	pressAll(t, s, "0. 5")

	assert.Equal(t, "0.5", s.Display())

	tape := s.Tape()
	require.Len(t, tape.Steps, 3)
	assert.Equal(t, "0.", tape.Steps[0].Key)
	assert.Equal(t, "0", tape.Steps[0].Command)
	assert.Equal(t, ".", tape.Steps[1].Command)
	assert.Equal(t, tape.Steps[0].Press, tape.Steps[1].Press)
	assert.Equal(t, []string{"0.", "5"}, tape.Keys())
}

func TestSession_Apply(t *testing.T) {
	s := newTestSession(t)

	s.Apply(calc.Digit('9'))
	step := s.Apply(calc.Unary(calc.FnSqrt))

	assert.Equal(t, "sqrt", step.Key)
	assert.Equal(t, "3", step.Display)
	assert.True(t, step.Awaiting)
}

func TestSession_WithState(t *testing.T) {
	s := newTestSession(t, WithState(calc.New(calc.WithAngleMode(calc.Radians), calc.WithMemory(2))))
	pressAll(t, s, "mr")

	assert.Equal(t, "2", s.Display())
	assert.Equal(t, calc.Radians, s.State().Angle)
}

func TestSession_Observer(t *testing.T) {
	var seen []string
	s := newTestSession(t, WithObserver(func(step ir.Step) {
		seen = append(seen, step.Display)
	}))

	pressAll(t, s, "1 2 neg")
	assert.Equal(t, []string{"1", "12", "-12"}, seen)
}

func TestSession_IndependentSessions(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)

	pressAll(t, a, "7 m+")
	pressAll(t, b, "mr")

	assert.Equal(t, 7.0, a.State().Memory)
	assert.Equal(t, "0", b.Display())
}

func TestSession_Hash(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	pressAll(t, a, "2 pow 8 =")
	pressAll(t, b, "2 pow 8 =")

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	pressAll(t, b, "neg")
	hb2, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb2)
}

func TestSession_RunProcessesQueue(t *testing.T) {
	s := newTestSession(t)

	for _, key := range testutil.Keys("5 + 3 * 2 =") {
		require.True(t, s.Enqueue(key))
	}
	assert.Equal(t, 7, s.QueueLen())
	s.Stop()

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "16", s.Display())
	assert.Equal(t, 0, s.QueueLen())
}

func TestSession_RunSkipsUnknownKeys(t *testing.T) {
	s := newTestSession(t)

	for _, key := range testutil.Keys("4 bogus 2") {
		s.Enqueue(key)
	}
	s.Stop()

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "42", s.Display())
}

func TestSession_RunContextCancel(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.Enqueue("9")
	require.Eventually(t, func() bool { return s.Display() == "9" }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.False(t, s.Enqueue("1"), "enqueue after shutdown must fail")
}

func TestSession_EnqueueConcurrent(t *testing.T) {
	s := newTestSession(t)
	const producers, presses = 8, 25

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < presses; j++ {
				s.Enqueue("m+")
			}
		}()
	}
	wg.Wait()
	s.Stop()

	require.NoError(t, s.Run(context.Background()))
	assert.Len(t, s.Tape().Steps, producers*presses)
}

func TestReplay_Matches(t *testing.T) {
	orig := newTestSession(t, WithResolver(macroResolver{}))
	pressAll(t, orig, "0. 5 * 4 = sqrt")

	replayed, err := Replay(orig.Tape(),
		WithResolver(macroResolver{}),
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewFixedSessionIDGenerator("replay-1")),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	assert.Equal(t, orig.Display(), replayed.Display())
	assert.Equal(t, "replay-1", replayed.ID())

	h1, err := orig.Hash()
	require.NoError(t, err)
	h2, err := replayed.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestReplay_Diverges(t *testing.T) {
	orig := newTestSession(t)
	pressAll(t, orig, "6 / 3 =")

	tape := orig.Tape()
	tape.Steps[3].Display = "3"

	_, err := Replay(tape, WithClock(testutil.NewDeterministicClock()), WithLogger(quietLogger()))
	require.Error(t, err)

	var re *ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 3, re.Index)
	assert.Equal(t, "3", re.Expected.Display)
	assert.Equal(t, "2", re.Actual.Display)
	assert.Contains(t, err.Error(), string(ErrCodeReplayDiverged))
}

func TestReplay_DifferentInitialState(t *testing.T) {
	orig := newTestSession(t)
	pressAll(t, orig, "3 0 sin")

	_, err := Replay(orig.Tape(),
		WithState(calc.New(calc.WithAngleMode(calc.Radians))),
		WithClock(testutil.NewDeterministicClock()),
		WithLogger(quietLogger()),
	)

	var re *ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, re.Index, "angle mode is recorded on every step")
}

func TestReplay_UnknownKey(t *testing.T) {
	tape := ir.Tape{Steps: []ir.Step{{Seq: 1, Press: 1, Key: "0.", Command: "0"}}}

	_, err := Replay(tape, WithLogger(quietLogger()))
	assert.True(t, IsUnknownKey(err))
}
