package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/calc"
)

// EvalResult is the outcome of an eval command.
type EvalResult struct {
	SessionID  string      `json:"session_id"`
	Keys       int         `json:"keys"`
	Steps      int         `json:"steps"`
	Status     calc.Status `json:"status"`
	ShowStatus bool        `json:"-"`
}

// String renders the display, followed by the status line when enabled.
func (r EvalResult) String() string {
	if r.ShowStatus {
		return r.Status.Display + "\n" + r.Status.String()
	}
	return r.Status.Display
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <keys...>",
		Short: "Press keys and print the display",
		Long: `Press the given keys in order and print the final display.

Keys may be separate arguments or one quoted string. Every key is checked
against the keymap before any is pressed, so an unknown key changes
nothing.

Examples:
  keycalc eval 5 + 3 =
  keycalc eval "2 pow 10 ="
  keycalc eval 9 0 sin --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, splitKeys(args), cmd)
		},
	}
	return cmd
}

func runEval(opts *RootOptions, keys []string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return opts.fail(cmd, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	km := cfg.Keymap()
	for i, key := range keys {
		if _, err := km.Resolve(key); err != nil {
			return opts.fail(cmd, ExitCommandError, ErrCodeUnknownKey, fmt.Sprintf("key %d (%q) is not recognized", i+1, key), err)
		}
	}

	sess := opts.newSession(cmd, cfg)
	for _, key := range keys {
		sess.Enqueue(key)
	}
	sess.Stop()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "evaluation interrupted", err)
	}

	return opts.formatter(cmd).Success(EvalResult{
		SessionID:  sess.ID(),
		Keys:       len(keys),
		Steps:      len(sess.Tape().Steps),
		Status:     calc.StatusOf(sess.State()),
		ShowStatus: cfg.Status,
	})
}
