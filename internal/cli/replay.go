package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/ir"
	"github.com/roach88/keycalc/internal/session"
)

// ReplayResult summarizes a successful replay.
type ReplayResult struct {
	Steps   int    `json:"steps"`
	Hash    string `json:"hash"`
	Display string `json:"display"`
}

func (r ReplayResult) String() string {
	return fmt.Sprintf("✓ Replay matched %d steps (display %s, hash %s)", r.Steps, r.Display, r.Hash)
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <tape.json>",
		Short: "Re-press a recorded tape and verify determinism",
		Long: `Replay a tape written by "keycalc trace --format json" (or a bare
tape object) and check that every step comes out identical.

The replay uses the current config, so it must match the one the tape was
recorded with.

Exit codes:
  0 - Replay identical
  1 - Replay diverged
  2 - Command error (unreadable tape, unknown key)

Examples:
  keycalc trace "5 + 3 =" --format json > tape.json
  keycalc replay tape.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runReplay(opts *RootOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read tape", err)
	}
	tape, recordedHash, err := decodeTape(data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode tape", err)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return opts.fail(cmd, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	sess, err := session.Replay(tape,
		session.WithResolver(cfg.Keymap()),
		session.WithState(cfg.InitialState()),
		session.WithLogger(opts.logger(cmd.ErrOrStderr())),
	)
	var replayErr *session.ReplayError
	switch {
	case errors.As(err, &replayErr):
		_ = opts.formatter(cmd).Failure(ErrCodeReplayFails, replayErr.Error(), nil)
		return WrapExitError(ExitFailure, "replay diverged", err)
	case session.IsUnknownKey(err):
		return opts.fail(cmd, ExitCommandError, ErrCodeUnknownKey, "tape contains an unknown key", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	hash, err := sess.Hash()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash tape", err)
	}
	if recordedHash != "" && recordedHash != hash {
		msg := fmt.Sprintf("hash mismatch: recorded %s, replayed %s", recordedHash, hash)
		_ = opts.formatter(cmd).Failure(ErrCodeReplayFails, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	return opts.formatter(cmd).Success(ReplayResult{
		Steps:   len(tape.Steps),
		Hash:    hash,
		Display: sess.Display(),
	})
}

// decodeTape accepts a trace command JSON envelope or a bare ir.Tape.
// The recorded hash is empty for bare tapes.
func decodeTape(data []byte) (ir.Tape, string, error) {
	var envelope struct {
		Data *TraceResult `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ir.Tape{}, "", err
	}
	if envelope.Data != nil && len(envelope.Data.Tape.Steps) > 0 {
		return envelope.Data.Tape, envelope.Data.Hash, nil
	}

	var tape ir.Tape
	if err := json.Unmarshal(data, &tape); err != nil {
		return ir.Tape{}, "", err
	}
	if len(tape.Steps) == 0 {
		return ir.Tape{}, "", fmt.Errorf("tape has no steps")
	}
	return tape, "", nil
}
