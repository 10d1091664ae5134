package config

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/keycalc/internal/calc"
)

// Binding maps one key label to the command tokens it presses.
type Binding struct {
	Key    string
	Tokens []string
	Pos    token.Pos // where the binding was declared, if known
}

// Macro reports whether the binding presses more than one command.
func (b Binding) Macro() bool {
	return len(b.Tokens) > 1
}

// Keymap resolves key labels to commands: bound keys first, then
// canonical tokens.
//
// Immutable after construction and safe for concurrent use.
type Keymap struct {
	bindings map[string]Binding
	commands map[string][]calc.Command
}

// NewKeymap validates bindings and builds a keymap.
// Every target must be a canonical token; a binding cannot name another
// binding.
func NewKeymap(bindings []Binding) (*Keymap, error) {
	k := &Keymap{
		bindings: make(map[string]Binding, len(bindings)),
		commands: make(map[string][]calc.Command, len(bindings)),
	}
	for _, b := range bindings {
		if strings.TrimSpace(b.Key) == "" {
			return nil, &LoadError{Code: ErrCodeBadBinding, Message: "empty key label", Pos: b.Pos}
		}
		if len(b.Tokens) == 0 {
			return nil, &LoadError{
				Code:    ErrCodeBadBinding,
				Message: fmt.Sprintf("key %q: binding has no tokens", b.Key),
				Pos:     b.Pos,
			}
		}
		cmds := make([]calc.Command, 0, len(b.Tokens))
		for _, tok := range b.Tokens {
			c, err := calc.ParseToken(tok)
			if err != nil {
				return nil, &LoadError{
					Code:    ErrCodeBadBinding,
					Message: fmt.Sprintf("key %q: %v", b.Key, err),
					Pos:     b.Pos,
				}
			}
			cmds = append(cmds, c)
		}
		k.bindings[b.Key] = b
		k.commands[b.Key] = cmds
	}
	return k, nil
}

// Resolve returns the commands for key. Bound labels match exactly;
// anything else is parsed as a canonical token.
func (k *Keymap) Resolve(key string) ([]calc.Command, error) {
	if cmds, ok := k.commands[key]; ok {
		return slices.Clone(cmds), nil
	}
	c, err := calc.ParseToken(key)
	if err != nil {
		return nil, err
	}
	return []calc.Command{c}, nil
}

// Lookup returns the binding for key, if one exists.
func (k *Keymap) Lookup(key string) (Binding, bool) {
	b, ok := k.bindings[key]
	return b, ok
}

// Bindings returns all bindings sorted by key.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
