package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/keycalc/internal/calc"
)

var (
	//go:embed schema.cue
	schemaSource string

	//go:embed defaults.cue
	defaultsSource string
)

// Error codes carried by LoadError.
const (
	ErrCodeNotFound   = "E001" // path missing or unreadable
	ErrCodeLoadFailed = "E002" // CUE syntax or instance load failure
	ErrCodeSchema     = "E003" // value does not match #Config
	ErrCodeBadBinding = "E004" // key bound to something other than a command token
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Config is the effective keycalc configuration.
type Config struct {
	// Angle is the starting angle unit.
	Angle calc.AngleMode

	// Memory is the starting memory register.
	Memory float64

	// Status enables the memory/mode line in the REPL.
	Status bool

	// Source is the path the config was loaded from; empty for defaults.
	Source string

	bindings map[string]Binding
	keymap   *Keymap
}

// Default returns the built-in configuration.
func Default() *Config {
	ctx := cuecontext.New()
	v, err := compile(ctx, "defaults.cue", []byte(defaultsSource))
	if err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	cfg := &Config{bindings: make(map[string]Binding)}
	if err := cfg.finish(v); err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	return cfg
}

// Load reads a .cue file, or every .cue file of one package in a
// directory, and layers it over Default.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %v", err)}
	}

	ctx := cuecontext.New()
	var v cue.Value
	if info.IsDir() {
		v, err = loadDir(ctx, path)
	} else {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config: %v", readErr)}
		}
		v, err = compile(ctx, path, data)
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.Source = path
	if err := cfg.finish(v); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse layers CUE source over Default. filename is used in positions.
func Parse(filename string, src []byte) (*Config, error) {
	v, err := compile(cuecontext.New(), filename, src)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.Source = filename
	if err := cfg.finish(v); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keymap returns the key bindings, usable as a session resolver.
func (c *Config) Keymap() *Keymap {
	return c.keymap
}

// InitialState returns a fresh engine state with the configured angle
// mode and memory.
func (c *Config) InitialState() calc.State {
	return calc.New(calc.WithAngleMode(c.Angle), calc.WithMemory(c.Memory))
}

func compile(ctx *cue.Context, filename string, src []byte) (cue.Value, error) {
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return cue.Value{}, cueError(ErrCodeLoadFailed, err)
	}
	return v, validate(ctx, v)
}

func loadDir(ctx *cue.Context, dir string) (cue.Value, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	instances := load.Instances([]string{"."}, &load.Config{Dir: abs})
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, cueError(ErrCodeLoadFailed, inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, cueError(ErrCodeLoadFailed, err)
	}
	return v, validate(ctx, v)
}

// validate unifies v with #Config and requires a concrete result.
func validate(ctx *cue.Context, v cue.Value) error {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cueError(ErrCodeLoadFailed, err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueError(ErrCodeSchema, err)
	}
	return nil
}

// finish applies a validated value and rebuilds the keymap.
func (c *Config) finish(v cue.Value) error {
	if err := c.apply(v); err != nil {
		return err
	}
	bindings := make([]Binding, 0, len(c.bindings))
	for _, b := range c.bindings {
		bindings = append(bindings, b)
	}
	km, err := NewKeymap(bindings)
	if err != nil {
		return err
	}
	c.keymap = km
	return nil
}

// apply copies the fields present in v onto c. Absent fields keep their
// current value; keys are merged by name.
func (c *Config) apply(v cue.Value) error {
	if f := v.LookupPath(cue.ParsePath("angle_mode")); f.Exists() {
		s, err := f.String()
		if err != nil {
			return cueError(ErrCodeSchema, err)
		}
		mode, err := calc.ParseAngleMode(s)
		if err != nil {
			return &LoadError{Code: ErrCodeSchema, Message: err.Error(), Pos: f.Pos()}
		}
		c.Angle = mode
	}

	if f := v.LookupPath(cue.ParsePath("memory")); f.Exists() {
		m, err := f.Float64()
		if err != nil {
			return cueError(ErrCodeSchema, err)
		}
		c.Memory = m
	}

	if f := v.LookupPath(cue.ParsePath("status")); f.Exists() {
		b, err := f.Bool()
		if err != nil {
			return cueError(ErrCodeSchema, err)
		}
		c.Status = b
	}

	keys := v.LookupPath(cue.ParsePath("keys"))
	if !keys.Exists() {
		return nil
	}
	iter, err := keys.Fields()
	if err != nil {
		return cueError(ErrCodeSchema, err)
	}
	for iter.Next() {
		b, err := parseBinding(iter.Label(), iter.Value())
		if err != nil {
			return err
		}
		c.bindings[b.Key] = b
	}
	return nil
}

// parseBinding reads a string (alias) or list of strings (macro).
func parseBinding(key string, v cue.Value) (Binding, error) {
	b := Binding{Key: key, Pos: v.Pos()}
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return Binding{}, cueError(ErrCodeSchema, err)
		}
		b.Tokens = []string{s}
	case cue.ListKind:
		list, err := v.List()
		if err != nil {
			return Binding{}, cueError(ErrCodeSchema, err)
		}
		for list.Next() {
			s, err := list.Value().String()
			if err != nil {
				return Binding{}, cueError(ErrCodeSchema, err)
			}
			b.Tokens = append(b.Tokens, s)
		}
	default:
		return Binding{}, &LoadError{
			Code:    ErrCodeSchema,
			Message: fmt.Sprintf("key %q: expected string or list of strings, got %v", key, v.Kind()),
			Pos:     v.Pos(),
		}
	}
	return b, nil
}

// cueError converts a CUE error to a LoadError carrying the first position.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
