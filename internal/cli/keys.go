package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/calc"
)

// KeyBinding is one keymap entry as shown by the keys command.
type KeyBinding struct {
	Key    string   `json:"key"`
	Tokens []string `json:"tokens"`
}

// KeysResult lists the effective keymap and the canonical tokens.
type KeysResult struct {
	Source   string       `json:"source,omitempty"`
	Bindings []KeyBinding `json:"bindings"`
	Tokens   []string     `json:"tokens"`
}

func (r KeysResult) String() string {
	var b strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&b, "Config: %s\n", r.Source)
	}
	b.WriteString("Bindings:\n")
	for _, kb := range r.Bindings {
		fmt.Fprintf(&b, "  %-8s %s\n", kb.Key, strings.Join(kb.Tokens, " "))
	}
	b.WriteString("Tokens:\n  ")
	b.WriteString(strings.Join(r.Tokens, " "))
	return b.String()
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key bindings and command tokens",
		Long: `List the effective keymap (built-in defaults merged with --config)
followed by every canonical command token.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(rootOpts, cmd)
		},
	}
	return cmd
}

func runKeys(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return opts.fail(cmd, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	bindings := cfg.Keymap().Bindings()
	result := KeysResult{
		Source:   cfg.Source,
		Bindings: make([]KeyBinding, 0, len(bindings)),
		Tokens:   calc.Tokens(),
	}
	for _, b := range bindings {
		result.Bindings = append(result.Bindings, KeyBinding{Key: b.Key, Tokens: b.Tokens})
	}
	return opts.formatter(cmd).Success(result)
}
