package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordTape(t *testing.T, keys string) string {
	t.Helper()
	out, _, err := execute(t, "", "trace", keys, "--format", "json")
	require.NoError(t, err)
	return out
}

func TestReplay_Match(t *testing.T) {
	path := writeFile(t, "tape.json", recordTape(t, "5 + 3 ="))

	out, _, err := execute(t, "", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay matched 4 steps")
	assert.Contains(t, out, "display 8")
}

func TestReplay_JSON(t *testing.T) {
	path := writeFile(t, "tape.json", recordTape(t, "0. 5"))

	out, _, err := execute(t, "", "replay", path, "--format", "json")
	require.NoError(t, err)

	var result ReplayResult
	assert.Equal(t, "ok", decodeData(t, out, &result))
	assert.Equal(t, 3, result.Steps)
	assert.Equal(t, "0.5", result.Display)
}

func TestReplay_BareTape(t *testing.T) {
	var trace TraceResult
	decodeData(t, recordTape(t, "9 sqrt"), &trace)
	data, err := json.Marshal(trace.Tape)
	require.NoError(t, err)

	path := writeFile(t, "bare.json", string(data))
	out, _, err := execute(t, "", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, "display 3")
}

func TestReplay_Diverged(t *testing.T) {
	tape := strings.Replace(recordTape(t, "6 / 3 ="), `"display":"2"`, `"display":"3"`, 1)
	path := writeFile(t, "tape.json", tape)

	out, _, err := execute(t, "", "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeReplayFails)
}

func TestReplay_HashMismatch(t *testing.T) {
	var trace TraceResult
	decodeData(t, recordTape(t, "1 + 1 ="), &trace)
	trace.Hash = strings.Repeat("0", 64)
	data, err := json.Marshal(CLIResponse{Status: "ok", Data: trace})
	require.NoError(t, err)

	path := writeFile(t, "tape.json", string(data))
	_, _, err = execute(t, "", "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "hash mismatch")
}

func TestReplay_DifferentConfigDiverges(t *testing.T) {
	tapePath := writeFile(t, "tape.json", recordTape(t, "1"))
	cfgPath := writeFile(t, "rad.cue", "angle_mode: \"rad\"\n")

	_, _, err := execute(t, "", "replay", tapePath, "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReplay_CommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json"},
		{"no steps", `{"steps":[]}`},
		{"unknown key", `{"steps":[{"seq":1,"press":1,"key":"bogus","command":"1","display":"1","memory":"0","angle":"DEG","awaiting":false}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "tape.json", tt.content)
			_, _, err := execute(t, "", "replay", path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReplay_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "replay", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
