package calc

import (
	"fmt"
	"strings"
)

// Kind tags the variant carried by a Command.
type Kind int

const (
	// KindDigit appends (or starts) an operand with a single ASCII digit.
	KindDigit Kind = iota + 1
	// KindDecimal adds the decimal point to the operand being entered.
	KindDecimal
	// KindClear resets the calculation but keeps memory and angle mode.
	KindClear
	// KindOperator selects a binary operator, committing any pending one.
	KindOperator
	// KindEquals resolves the pending operation.
	KindEquals
	// KindPercent divides the display by 100.
	KindPercent
	// KindNegate flips the sign of the display.
	KindNegate
	// KindUnary applies a scientific function to the display.
	KindUnary
	// KindMemory runs a memory register command.
	KindMemory
	// KindToggleAngle flips between degrees and radians.
	KindToggleAngle

	kindCount
)

// BinaryOp is a pending two-operand operator.
type BinaryOp int

const (
	// OpNone means no operator is pending.
	OpNone BinaryOp = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpYRoot

	opCount
)

var binaryTokens = [opCount]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpModulo:   "mod",
	OpPower:    "pow",
	OpYRoot:    "yroot",
}

func (op BinaryOp) valid() bool {
	return op > OpNone && op < opCount
}

// String returns the operator's token.
func (op BinaryOp) String() string {
	if !op.valid() {
		return ""
	}
	return binaryTokens[op]
}

// UnaryFn is a single-operand scientific function or constant.
type UnaryFn int

const (
	FnSin UnaryFn = iota + 1
	FnCos
	FnTan
	FnAsin
	FnAcos
	FnAtan
	FnLog10
	FnLn
	FnSqrt
	FnCbrt
	FnSquare
	FnCube
	FnFactorial
	FnExp
	FnReciprocal
	FnPi
	FnE

	fnCount
)

var unaryTokens = [fnCount]string{
	FnSin:        "sin",
	FnCos:        "cos",
	FnTan:        "tan",
	FnAsin:       "asin",
	FnAcos:       "acos",
	FnAtan:       "atan",
	FnLog10:      "log",
	FnLn:         "ln",
	FnSqrt:       "sqrt",
	FnCbrt:       "cbrt",
	FnSquare:     "square",
	FnCube:       "cube",
	FnFactorial:  "factorial",
	FnExp:        "exp",
	FnReciprocal: "1/x",
	FnPi:         "pi",
	FnE:          "e",
}

func (fn UnaryFn) valid() bool {
	return fn > 0 && fn < fnCount
}

// String returns the function's token.
func (fn UnaryFn) String() string {
	if !fn.valid() {
		return ""
	}
	return unaryTokens[fn]
}

// MemoryOp is a memory register command.
type MemoryOp int

const (
	MemClear MemoryOp = iota + 1
	MemRecall
	MemAdd
	MemSubtract

	memCount
)

var memoryTokens = [memCount]string{
	MemClear:    "mc",
	MemRecall:   "mr",
	MemAdd:      "m+",
	MemSubtract: "m-",
}

func (op MemoryOp) valid() bool {
	return op > 0 && op < memCount
}

// String returns the memory command's token.
func (op MemoryOp) String() string {
	if !op.valid() {
		return ""
	}
	return memoryTokens[op]
}

// Command is one discrete input event. Only the field matching Kind is
// meaningful; use the constructors below rather than building it by hand.
type Command struct {
	Kind  Kind
	Digit byte // '0'..'9' for KindDigit
	Op    BinaryOp
	Fn    UnaryFn
	Mem   MemoryOp
}

// Digit returns the command for a single ASCII digit.
func Digit(d byte) Command { return Command{Kind: KindDigit, Digit: d} }

// Decimal returns the decimal point command.
func Decimal() Command { return Command{Kind: KindDecimal} }

// Clear returns the clear command.
func Clear() Command { return Command{Kind: KindClear} }

// SetOperator returns the command selecting op.
func SetOperator(op BinaryOp) Command { return Command{Kind: KindOperator, Op: op} }

// Equals returns the equals command.
func Equals() Command { return Command{Kind: KindEquals} }

// Percent returns the percent command.
func Percent() Command { return Command{Kind: KindPercent} }

// Negate returns the sign change command.
func Negate() Command { return Command{Kind: KindNegate} }

// Unary returns the command applying fn.
func Unary(fn UnaryFn) Command { return Command{Kind: KindUnary, Fn: fn} }

// Memory returns the memory command op.
func Memory(op MemoryOp) Command { return Command{Kind: KindMemory, Mem: op} }

// ToggleAngle returns the angle mode toggle.
func ToggleAngle() Command { return Command{Kind: KindToggleAngle} }

// Valid reports whether c is a well-formed command.
func (c Command) Valid() bool {
	switch c.Kind {
	case KindDigit:
		return c.Digit >= '0' && c.Digit <= '9'
	case KindOperator:
		return c.Op.valid()
	case KindUnary:
		return c.Fn.valid()
	case KindMemory:
		return c.Mem.valid()
	default:
		return c.Kind > 0 && c.Kind < kindCount
	}
}

// String returns the canonical token for c. ParseToken(c.String()) == c
// for every valid command.
func (c Command) String() string {
	switch c.Kind {
	case KindDigit:
		return string(c.Digit)
	case KindDecimal:
		return "."
	case KindClear:
		return "clear"
	case KindOperator:
		return c.Op.String()
	case KindEquals:
		return "="
	case KindPercent:
		return "%"
	case KindNegate:
		return "neg"
	case KindUnary:
		return c.Fn.String()
	case KindMemory:
		return c.Mem.String()
	case KindToggleAngle:
		return "drg"
	default:
		return fmt.Sprintf("Kind(%d)", int(c.Kind))
	}
}

// TokenError reports text that does not name a command.
type TokenError struct {
	Token   string
	Message string
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	return fmt.Sprintf("token %q: %s", e.Token, e.Message)
}

// tokens maps every canonical token to its command.
var tokens = buildTokenTable()

func buildTokenTable() map[string]Command {
	t := map[string]Command{
		".":     Decimal(),
		"clear": Clear(),
		"=":     Equals(),
		"%":     Percent(),
		"neg":   Negate(),
		"drg":   ToggleAngle(),
	}
	for d := byte('0'); d <= '9'; d++ {
		t[string(d)] = Digit(d)
	}
	for op := OpAdd; op < opCount; op++ {
		t[op.String()] = SetOperator(op)
	}
	for fn := FnSin; fn < fnCount; fn++ {
		t[fn.String()] = Unary(fn)
	}
	for op := MemClear; op < memCount; op++ {
		t[op.String()] = Memory(op)
	}
	return t
}

// ParseToken resolves a canonical token (case-insensitive) to a Command.
// Aliases such as "C" or "x^2" are a keymap concern and are not accepted
// here.
func ParseToken(tok string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(tok))
	if key == "" {
		return Command{}, &TokenError{Token: tok, Message: "empty token"}
	}
	c, ok := tokens[key]
	if !ok {
		return Command{}, &TokenError{Token: tok, Message: "unknown command"}
	}
	return c, nil
}

// Tokens returns every canonical token in a stable order: digits, decimal,
// operators, functions, memory, then the remaining commands.
func Tokens() []string {
	out := make([]string, 0, len(tokens))
	for d := byte('0'); d <= '9'; d++ {
		out = append(out, string(d))
	}
	out = append(out, ".")
	for op := OpAdd; op < opCount; op++ {
		out = append(out, op.String())
	}
	for fn := FnSin; fn < fnCount; fn++ {
		out = append(out, fn.String())
	}
	for op := MemClear; op < memCount; op++ {
		out = append(out, op.String())
	}
	return append(out, "=", "%", "neg", "clear", "drg")
}
