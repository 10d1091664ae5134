package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keycalc/internal/calc"
)

func TestKeys_Text(t *testing.T) {
	out, _, err := execute(t, "", "keys")
	require.NoError(t, err)

	assert.Contains(t, out, "Bindings:")
	assert.Contains(t, out, "x^2      square")
	assert.Contains(t, out, "0.       0 .")
	assert.Contains(t, out, "Tokens:")
	assert.NotContains(t, out, "Config:")
}

func TestKeys_JSONWithConfig(t *testing.T) {
	path := writeFile(t, "keycalc.cue", `keys: "sq": "square"`+"\n")

	out, _, err := execute(t, "", "keys", "--config", path, "--format", "json")
	require.NoError(t, err)

	var result KeysResult
	assert.Equal(t, "ok", decodeData(t, out, &result))
	assert.Equal(t, path, result.Source)
	assert.Equal(t, calc.Tokens(), result.Tokens)

	found := false
	for _, b := range result.Bindings {
		if b.Key == "sq" {
			found = true
			assert.Equal(t, []string{"square"}, b.Tokens)
		}
	}
	assert.True(t, found, "configured binding should be listed")
}
