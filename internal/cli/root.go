package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keycalc/internal/config"
	"github.com/roach88/keycalc/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // optional CUE config file or directory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the keycalc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "keycalc",
		Short: "keycalc - keypad calculator engine",
		Long: `A scientific calculator driven by key presses.

Keys are canonical command tokens ("7", ".", "+", "sqrt", "m+", "=") or
keypad labels bound in the keymap ("x^2", "0.", "+/-"). Run "keycalc keys"
to list them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to CUE config file or directory")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))

	return cmd
}

// loadConfig returns the config named by --config, or the defaults.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.ConfigPath)
}

// logger writes text logs to w. Only warnings are shown unless --verbose
// enables debug output.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newSession builds a session from cfg, logging to the command's stderr.
func (o *RootOptions) newSession(cmd *cobra.Command, cfg *config.Config, opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithResolver(cfg.Keymap()),
		session.WithState(cfg.InitialState()),
		session.WithLogger(o.logger(cmd.ErrOrStderr())),
	}
	return session.New(append(base, opts...)...)
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// fail reports err as a JSON error envelope in JSON mode (text mode
// leaves printing to main) and returns it wrapped with an exit code.
func (o *RootOptions) fail(cmd *cobra.Command, exit int, code, message string, err error) error {
	if o.Format == "json" {
		var details any
		if err != nil {
			details = err.Error()
		}
		_ = o.formatter(cmd).Error(code, message, details)
	}
	return WrapExitError(exit, message, err)
}

// splitKeys flattens arguments into keys, so both `eval 5 + 3` and
// `eval "5 + 3"` work.
func splitKeys(args []string) []string {
	var keys []string
	for _, a := range args {
		keys = append(keys, strings.Fields(a)...)
	}
	return keys
}
