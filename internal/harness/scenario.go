package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/keycalc/internal/calc"
)

// Scenario is one conformance test: keys to press and what must hold.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionID pins the session ID. Defaults to testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	// AngleMode is the starting angle unit, "deg" or "rad".
	AngleMode string `yaml:"angle_mode,omitempty"`

	// Memory is the starting memory register.
	Memory *float64 `yaml:"memory,omitempty"`

	// Keys are pressed in order.
	Keys []string `yaml:"keys"`

	// Expect checks intermediate state after specific presses.
	Expect []Expectation `yaml:"expect,omitempty"`

	// Assertions check the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Expectation checks the state right after press number After (1-based).
// Nil fields are not checked.
type Expectation struct {
	After   int     `yaml:"after"`
	Display *string `yaml:"display,omitempty"`
	Memory  *string `yaml:"memory,omitempty"`
	Angle   *string `yaml:"angle,omitempty"`
	Pending *string `yaml:"pending,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected value. Optional for sentinel.
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertDisplay  = "display"
	AssertMemory   = "memory"
	AssertAngle    = "angle"
	AssertPending  = "pending"
	AssertSentinel = "sentinel"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// InitialState returns the engine state the scenario starts from.
func (s *Scenario) InitialState() (calc.State, error) {
	var opts []calc.Option
	if s.AngleMode != "" {
		mode, err := calc.ParseAngleMode(s.AngleMode)
		if err != nil {
			return calc.State{}, err
		}
		opts = append(opts, calc.WithAngleMode(mode))
	}
	if s.Memory != nil {
		opts = append(opts, calc.WithMemory(*s.Memory))
	}
	return calc.New(opts...), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Keys) == 0 {
		return fmt.Errorf("keys list is required and must be non-empty")
	}

	if len(s.Expect) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one expect entry or assertion is required")
	}

	if _, err := s.InitialState(); err != nil {
		return fmt.Errorf("angle_mode: %w", err)
	}

	for i, e := range s.Expect {
		if e.After < 1 || e.After > len(s.Keys) {
			return fmt.Errorf("expect[%d]: after must be between 1 and %d, got %d", i, len(s.Keys), e.After)
		}
		if e.Display == nil && e.Memory == nil && e.Angle == nil && e.Pending == nil {
			return fmt.Errorf("expect[%d]: nothing to check", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertDisplay, AssertMemory, AssertAngle:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertPending:
		// Empty value asserts no pending operation.
	case AssertSentinel:
		if a.Value != "" && !calc.IsSentinel(a.Value) {
			return fmt.Errorf("assertions[%d]: %q is not a sentinel display", index, a.Value)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
