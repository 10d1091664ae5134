package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/calc"
	"github.com/roach88/keycalc/internal/session"
)

// REPL meta keys. They are handled before the keymap.
const (
	metaQuit   = "quit"
	metaExit   = "exit"
	metaStatus = "status"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Status bool
}

// ReplLine is printed after each input line.
type ReplLine struct {
	Status     calc.Status `json:"status"`
	ShowStatus bool        `json:"show_status"`
}

// String renders the display, followed by the status line when enabled.
func (l ReplLine) String() string {
	if l.ShowStatus {
		return l.Status.Display + "\n" + l.Status.String()
	}
	return l.Status.Display
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator on stdin",
		Long: `Read whitespace-separated keys from stdin, one line at a time, and
print the display after each line.

Meta keys:
  status  toggle the memory/mode status line
  quit    exit (also: exit, or end of input)

Unknown keys are reported and skipped; the rest of the line still runs.
With --format json every line produces one JSON object.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Status, "status", false, "start with the status line shown")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return opts.fail(cmd, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	sess := opts.newSession(cmd, cfg)
	f := opts.formatter(cmd)
	showStatus := cfg.Status || opts.Status

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		keys := strings.Fields(scanner.Text())
		if len(keys) == 0 {
			continue
		}

		quit, handled := false, false
	keyLoop:
		for _, key := range keys {
			switch strings.ToLower(key) {
			case metaQuit, metaExit:
				quit = true
				break keyLoop
			case metaStatus:
				showStatus = !showStatus
			default:
				if _, err := sess.Press(key); err != nil {
					reportPressError(f, key, err)
				}
			}
			handled = true
		}

		if handled {
			line := ReplLine{Status: calc.StatusOf(sess.State()), ShowStatus: showStatus}
			if err := f.Success(line); err != nil {
				return err
			}
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func reportPressError(f *OutputFormatter, key string, err error) {
	if f.Format == "json" {
		_ = f.Error(ErrCodeUnknownKey, fmt.Sprintf("unknown key %q", key), err.Error())
		return
	}
	if session.IsUnknownKey(err) {
		fmt.Fprintf(f.GetErrWriter(), "unknown key %q\n", key)
		return
	}
	fmt.Fprintf(f.GetErrWriter(), "error: %v\n", err)
}
