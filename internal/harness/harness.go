package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/config"
	"github.com/roach88/keycalc/internal/ir"
	"github.com/roach88/keycalc/internal/session"
	"github.com/roach88/keycalc/internal/testutil"
)

// Harness runs scenarios with a deterministic clock and session ID.
type Harness struct {
	clock    *testutil.DeterministicClock
	resolver session.Resolver
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithResolver overrides the key resolver. Defaults to the built-in keymap.
func WithResolver(r session.Resolver) Option {
	return func(h *Harness) {
		h.resolver = r
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each run starts from a fresh session, so scenarios are isolated from
// one another. A returned error means the scenario could not run (for
// example, a key that resolves to nothing); failed checks are reported in
// Result.Errors instead.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		clock:    testutil.NewDeterministicClock(),
		resolver: config.Default().Keymap(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}
	return h.run(scenario)
}

func (h *Harness) run(scenario *Scenario) (*Result, error) {
	initial, err := scenario.InitialState()
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	sess := session.New(
		session.WithClock(h.clock),
		session.WithIDGenerator(testutil.NewFixedSessionIDGenerator(scenario.SessionID)),
		session.WithResolver(h.resolver),
		session.WithState(initial),
		session.WithLogger(h.logger),
	)

	expectations := make(map[int][]Expectation, len(scenario.Expect))
	for _, e := range scenario.Expect {
		expectations[e.After] = append(expectations[e.After], e)
	}

	result := NewResult()
	result.SessionID = sess.ID()

	for i, key := range scenario.Keys {
		press := i + 1
		steps, err := sess.Press(key)
		if err != nil {
			return nil, fmt.Errorf("press %d: %w", press, err)
		}
		last := steps[len(steps)-1]
		for _, e := range expectations[press] {
			for _, msg := range checkExpectation(e, last) {
				result.AddError(msg)
			}
		}
		h.logger.Debug("scenario press",
			"scenario", scenario.Name,
			"press", press,
			"key", key,
			"display", last.Display,
		)
	}

	result.Steps = sess.Tape().Steps
	result.Final = calc.StatusOf(sess.State())
	result.Hash, err = ir.TapeHash(result.Steps)
	if err != nil {
		return nil, fmt.Errorf("hashing tape: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"steps", len(result.Steps),
	)
	return result, nil
}
