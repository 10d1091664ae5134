package calc

import "strings"

// transition is a pure state transition for one command Kind.
type transition func(State, Command) State

// transitions is indexed by Kind. Kind values start at 1, so slot 0 stays nil.
var transitions = [kindCount]transition{
	KindDigit:       applyDigit,
	KindDecimal:     applyDecimal,
	KindClear:       applyClear,
	KindOperator:    applyOperator,
	KindEquals:      applyEquals,
	KindPercent:     applyPercent,
	KindNegate:      applyNegate,
	KindUnary:       applyUnary,
	KindMemory:      applyMemory,
	KindToggleAngle: applyToggleAngle,
}

// Apply folds c into s and returns the resulting state.
// Invalid commands leave the state unchanged.
func Apply(s State, c Command) State {
	if !c.Valid() {
		return s
	}
	return transitions[c.Kind](s, c)
}

// ApplyAll folds cmds into s in order.
func ApplyAll(s State, cmds ...Command) State {
	for _, c := range cmds {
		s = Apply(s, c)
	}
	return s
}

// freshEntry reports whether the next digit or decimal point starts a new
// operand instead of extending the display.
func (s State) freshEntry() bool {
	return s.Awaiting || s.Evaluated || !editable(s.Display)
}

func applyDigit(s State, c Command) State {
	d := string(c.Digit)
	if s.freshEntry() || s.Display == "0" {
		s.Display = d
	} else {
		s.Display += d
	}
	s.Awaiting = false
	s.Evaluated = false
	return s
}

func applyDecimal(s State, _ Command) State {
	switch {
	case s.freshEntry():
		s.Display = "0."
	case !strings.Contains(s.Display, "."):
		s.Display += "."
	}
	s.Awaiting = false
	s.Evaluated = false
	return s
}

func applyClear(s State, _ Command) State {
	return State{
		Display: "0",
		Memory:  s.Memory,
		Angle:   s.Angle,
	}
}

func applyOperator(s State, c Command) State {
	v := s.Value()
	if first, ok := s.FirstOperand(); ok {
		// Chaining: the second operator commits the first.
		r := evaluate(first, s.Operator, v)
		s.Display = FormatNumber(r)
		s.operand = r
	} else {
		s.operand = v
	}
	s.Operator = c.Op
	s.Awaiting = true
	s.Evaluated = false
	return s
}

func applyEquals(s State, _ Command) State {
	first, ok := s.FirstOperand()
	if !ok {
		return s
	}
	r := evaluate(first, s.Operator, s.Value())
	s.Display = FormatNumber(r)
	s.Operator = OpNone
	s.operand = 0
	s.Awaiting = false
	s.Evaluated = true
	return s
}

func applyPercent(s State, _ Command) State {
	s.Display = FormatNumber(s.Value() / 100)
	return s
}

func applyNegate(s State, _ Command) State {
	s.Display = FormatNumber(-s.Value())
	return s
}

func applyUnary(s State, c Command) State {
	s.Display = FormatNumber(unaryTable[c.Fn](s.Value(), s.Angle))
	s.Awaiting = true
	return s
}

func applyMemory(s State, c Command) State {
	switch c.Mem {
	case MemClear:
		s.Memory = 0
	case MemRecall:
		s.Display = FormatNumber(s.Memory)
		s.Awaiting = true
	case MemAdd:
		s.Memory += s.Value()
		s.Awaiting = true
	case MemSubtract:
		s.Memory -= s.Value()
		s.Awaiting = true
	}
	return s
}

func applyToggleAngle(s State, _ Command) State {
	s.Angle = s.Angle.Toggle()
	return s
}
