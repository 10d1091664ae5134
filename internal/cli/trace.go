package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/ir"
)

// TraceResult is the full tape of a key sequence plus its hash.
// Its JSON form is what the replay command reads.
type TraceResult struct {
	Tape ir.Tape `json:"tape"`
	Hash string  `json:"hash"`
}

// String renders one line per step: seq, press, key, command, display and
// the pending operation if any.
func (r TraceResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", r.Tape.SessionID)
	for _, s := range r.Tape.Steps {
		fmt.Fprintf(&b, "  %3d  #%-3d %-8s %-10s -> %s", s.Seq, s.Press, s.Key, s.Command, s.Display)
		if s.Pending != "" {
			fmt.Fprintf(&b, "  [%s]", s.Pending)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Hash: %s", r.Hash)
	return b.String()
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <keys...>",
		Short: "Press keys and print every step",
		Long: `Press the given keys and print the resulting tape: one step per
applied command, with the display and pending operation after it.

A keypad macro such as "0." produces several steps for one press.
The JSON form (--format json) can be saved and checked with "keycalc replay".

Examples:
  keycalc trace 5 + 3 "*" 2 =
  keycalc trace "0. 5 x^2" --format json > tape.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, splitKeys(args), cmd)
		},
	}
	return cmd
}

func runTrace(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return opts.fail(cmd, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	sess := opts.newSession(cmd, cfg)
	for i, key := range keys {
		if _, err := sess.Press(key); err != nil {
			return opts.fail(cmd, ExitCommandError, ErrCodeUnknownKey, fmt.Sprintf("key %d (%q) is not recognized", i+1, key), err)
		}
	}

	hash, err := sess.Hash()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash tape", err)
	}

	return opts.formatter(cmd).Success(TraceResult{Tape: sess.Tape(), Hash: hash})
}
