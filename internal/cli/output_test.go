package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "inner", errors.New("cause")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitError_Message(t *testing.T) {
	cause := errors.New("cause")
	err := WrapExitError(ExitCommandError, "failed", cause)

	assert.Equal(t, "failed: cause", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", NewExitError(ExitFailure, "bare").Error())
}

func TestOutputFormatter_Text(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out}

	require.NoError(t, f.Success("8"))
	require.NoError(t, f.Error("E_X", "went wrong", "detail"))

	assert.Equal(t, "8\nError [E_X]: went wrong\n", out.String())
}

func TestOutputFormatter_JSON(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out}

	require.NoError(t, f.Success(map[string]string{"display": "8"}))
	require.NoError(t, f.Failure("E_X", "went wrong", nil))

	assert.Equal(t,
		`{"status":"ok","data":{"display":"8"}}`+"\n"+
			`{"status":"error","error":{"code":"E_X","message":"went wrong"}}`+"\n",
		out.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, diag bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &diag}

	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, diag.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", diag.String())
	assert.Empty(t, out.String())
}
