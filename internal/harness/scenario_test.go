package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keycalc/internal/calc"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: memory_test
description: "Memory survives clear"
angle_mode: rad
memory: 1.5
keys: ["7", "m+", "C", "mr"]
expect:
  - after: 3
    display: "0"
assertions:
  - type: display
    value: "7"
  - type: sentinel
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "memory_test", s.Name)
	assert.Equal(t, []string{"7", "m+", "C", "mr"}, s.Keys)
	require.NotNil(t, s.Memory)
	assert.Equal(t, 1.5, *s.Memory)
	require.Len(t, s.Expect, 1)
	require.NotNil(t, s.Expect[0].Display)
	assert.Equal(t, "0", *s.Expect[0].Display)
	assert.Nil(t, s.Expect[0].Memory)
	assert.Len(t, s.Assertions, 2)

	st, err := s.InitialState()
	require.NoError(t, err)
	assert.Equal(t, calc.Radians, st.Angle)
	assert.Equal(t, 1.5, st.Memory)
}

func TestLoadScenario_UnquotedDigitsAreStrings(t *testing.T) {
	path := writeScenario(t, `
name: digits
description: "YAML ints decode as key strings"
keys: [1, 2, "="]
assertions:
  - type: display
    value: "12"
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "="}, s.Keys)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "assertion instead of assertions"
keys: ["1"]
assertion:
  - type: display
    value: "1"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nkeys: [\"1\"]\nassertions: [{type: display, value: \"1\"}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nkeys: [\"1\"]\nassertions: [{type: display, value: \"1\"}]",
			wantErr: "description is required",
		},
		{
			name:    "no keys",
			yaml:    "name: n\ndescription: d\nassertions: [{type: display, value: \"1\"}]",
			wantErr: "keys list is required",
		},
		{
			name:    "nothing checked",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]",
			wantErr: "at least one expect entry or assertion",
		},
		{
			name:    "bad angle mode",
			yaml:    "name: n\ndescription: d\nangle_mode: grad\nkeys: [\"1\"]\nassertions: [{type: display, value: \"1\"}]",
			wantErr: "angle_mode",
		},
		{
			name:    "expect after out of range",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]\nexpect: [{after: 2, display: \"1\"}]",
			wantErr: "after must be between 1 and 1",
		},
		{
			name:    "empty expectation",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]\nexpect: [{after: 1}]",
			wantErr: "nothing to check",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]\nassertions: [{type: trace_order}]",
			wantErr: "unknown assertion type",
		},
		{
			name:    "display without value",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]\nassertions: [{type: display}]",
			wantErr: "value is required for display",
		},
		{
			name:    "sentinel with ordinary value",
			yaml:    "name: n\ndescription: d\nkeys: [\"1\"]\nassertions: [{type: sentinel, value: \"1\"}]",
			wantErr: "not a sentinel display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarios_Directory(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	// Sorted by file name.
	assert.Equal(t, "addition", scenarios[0].Name)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unclosed"), 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
