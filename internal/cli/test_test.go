package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

func TestTestCommand_AllPass(t *testing.T) {
	out, _, err := execute(t, "", "test", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ addition")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "All scenarios passed")
}

func TestTestCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "", "test", scenariosDir, "--filter", "memory_*", "--format", "json")
	require.NoError(t, err)

	var result TestResult
	assert.Equal(t, "ok", decodeData(t, out, &result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Passed)
	for _, s := range result.Scenarios {
		assert.Len(t, s.Hash, 64)
	}
}

func TestTestCommand_Golden(t *testing.T) {
	golden := filepath.Join("..", "harness", "testdata", "golden")
	out, _, err := execute(t, "", "test", scenariosDir, "--filter", "chained_operators", "--golden", golden)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	_, _, err := execute(t, "", "test", scenariosDir, "--filter", "digit_entry", "--golden", golden, "--update")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(golden, "digit_entry.golden"))

	_, _, err = execute(t, "", "test", scenariosDir, "--filter", "digit_entry", "--golden", golden)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(golden, "digit_entry.golden"), []byte("{}"), 0644))
	out, _, err := execute(t, "", "test", scenariosDir, "--filter", "digit_entry", "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommand_MissingGolden(t *testing.T) {
	out, _, err := execute(t, "", "test", scenariosDir, "--filter", "addition", "--golden", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "golden file missing")
}

func TestTestCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
description: "Expects the wrong sum"
keys: ["2", "+", "2", "="]
assertions:
  - type: display
    value: "5"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "2 failed")
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, _, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_CommandErrors(t *testing.T) {
	_, _, err := execute(t, "", "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "", "test", scenariosDir, "--update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--update requires --golden")

	_, _, err = execute(t, "", "test", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
