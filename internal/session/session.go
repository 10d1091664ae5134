package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/ir"
)

// Resolver turns a key into the calc commands it stands for.
// config.Keymap implements it; TokenResolver is the alias-free default.
type Resolver interface {
	Resolve(key string) ([]calc.Command, error)
}

// TokenResolver resolves canonical tokens only.
type TokenResolver struct{}

// Resolve parses key with calc.ParseToken.
func (TokenResolver) Resolve(key string) ([]calc.Command, error) {
	c, err := calc.ParseToken(key)
	if err != nil {
		return nil, err
	}
	return []calc.Command{c}, nil
}

// Session is one user's calculator: a single calc.State plus its tape.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Press(), Apply(): must not race with Run
//   - State(), Tape(), Hash(): safe from any goroutine
type Session struct {
	id       string
	clock    Clock
	resolver Resolver
	queue    *pressQueue
	logger   *slog.Logger
	observer func(ir.Step)

	mu      sync.Mutex
	initial calc.State
	state   calc.State
	steps   []ir.Step
	presses int64
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the logical clock (tests use a deterministic one).
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithIDGenerator sets the generator used for the session ID.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		s.id = g.Generate()
	}
}

// WithResolver sets the key resolver, usually a config.Keymap.
func WithResolver(r Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithState sets the initial engine state (angle mode, memory).
func WithState(st calc.State) Option {
	return func(s *Session) {
		s.initial = st
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithObserver registers a callback invoked for every recorded step.
// It runs on the goroutine that applied the step, outside the session lock.
func WithObserver(fn func(ir.Step)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// New creates a session in the initial calculator state.
func New(opts ...Option) *Session {
	s := &Session{
		clock:    NewClock(),
		resolver: TokenResolver{},
		queue:    newPressQueue(),
		logger:   slog.Default(),
		initial:  calc.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.state = s.initial
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// State returns the current engine state.
func (s *Session) State() calc.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Display returns the text currently shown.
func (s *Session) Display() string {
	return calc.Render(s.State())
}

// Press resolves key and applies the resulting commands, one step each.
// An unresolvable key returns a *SessionError and changes nothing.
func (s *Session) Press(key string) ([]ir.Step, error) {
	cmds, err := s.resolver.Resolve(key)
	if err == nil && len(cmds) == 0 {
		err = fmt.Errorf("key maps to no commands")
	}
	if err != nil {
		return nil, &SessionError{
			Code:      ErrCodeUnknownKey,
			Message:   "key does not resolve to a command",
			SessionID: s.id,
			Key:       key,
			Err:       err,
		}
	}

	s.mu.Lock()
	s.presses++
	steps := make([]ir.Step, 0, len(cmds))
	for _, c := range cmds {
		steps = append(steps, s.applyLocked(key, c))
	}
	s.mu.Unlock()

	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		last := steps[len(steps)-1]
		stepID, _ := ir.StepID(s.id, last)
		s.logger.Debug("key pressed",
			"session", s.id,
			"key", key,
			"commands", len(steps),
			"display", last.Display,
			"step", stepID,
		)
	}
	s.notify(steps)
	return steps, nil
}

// Apply applies a single command directly, bypassing the resolver.
func (s *Session) Apply(c calc.Command) ir.Step {
	s.mu.Lock()
	s.presses++
	step := s.applyLocked(c.String(), c)
	s.mu.Unlock()

	s.notify([]ir.Step{step})
	return step
}

// applyLocked folds c into the state and records the step.
// Caller must hold s.mu.
func (s *Session) applyLocked(key string, c calc.Command) ir.Step {
	s.state = calc.Apply(s.state, c)
	st := calc.StatusOf(s.state)
	step := ir.Step{
		Seq:      s.clock.Next(),
		Press:    s.presses,
		Key:      key,
		Command:  c.String(),
		Display:  st.Display,
		Pending:  st.Pending,
		Memory:   st.Memory,
		Angle:    st.Angle,
		Awaiting: st.Awaiting,
	}
	s.steps = append(s.steps, step)
	return step
}

func (s *Session) notify(steps []ir.Step) {
	if s.observer == nil {
		return
	}
	for _, step := range steps {
		s.observer(step)
	}
}

// Tape returns a copy of the recorded steps.
func (s *Session) Tape() ir.Tape {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := make([]ir.Step, len(s.steps))
	copy(steps, s.steps)
	return ir.Tape{
		SessionID:     s.id,
		IRVersion:     ir.IRVersion,
		EngineVersion: ir.EngineVersion,
		Steps:         steps,
	}
}

// Hash fingerprints the tape so far (see ir.TapeHash).
func (s *Session) Hash() (string, error) {
	return ir.TapeHash(s.Tape().Steps)
}

// Enqueue submits a key for the Run loop.
// Safe from any goroutine. Returns false once the session is stopped.
func (s *Session) Enqueue(key string) bool {
	return s.queue.Enqueue(key)
}

// QueueLen returns the number of presses waiting for Run.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// Run drains enqueued presses until ctx is cancelled or Stop is called
// and the queue is empty.
//
// A press that fails (unknown key) is logged and skipped; later presses
// still run.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session starting", "session", s.id)

	for {
		if key, ok := s.queue.TryDequeue(); ok {
			if _, err := s.Press(key); err != nil {
				s.logger.Warn("press failed",
					"session", s.id,
					"key", key,
					"error", err,
				)
			}
			continue
		}
		if s.queue.Drained() {
			s.logger.Info("session stopping: queue closed", "session", s.id)
			return nil
		}

		select {
		case <-ctx.Done():
			s.logger.Info("session stopping: context cancelled", "session", s.id)
			s.queue.Close()
			return ctx.Err()
		case <-s.queue.Wait():
		}
	}
}

// Stop closes the queue. Run returns after draining what is already queued.
func (s *Session) Stop() {
	s.queue.Close()
}
