package calc

import "math"

type binaryFunc func(first, second float64) float64

// binaryTable is indexed by BinaryOp. Division by zero is not trapped:
// IEEE semantics give ±Inf or NaN.
var binaryTable = [opCount]binaryFunc{
	OpAdd:      func(a, b float64) float64 { return a + b },
	OpSubtract: func(a, b float64) float64 { return a - b },
	OpMultiply: func(a, b float64) float64 { return a * b },
	OpDivide:   func(a, b float64) float64 { return a / b },
	OpModulo:   math.Mod,
	OpPower:    math.Pow,
	OpYRoot:    func(a, b float64) float64 { return math.Pow(a, 1/b) },
}

// Evaluate computes first op second. It returns NaN for OpNone or an
// unknown operator.
func Evaluate(first float64, op BinaryOp, second float64) float64 {
	return evaluate(first, op, second)
}

func evaluate(first float64, op BinaryOp, second float64) float64 {
	if !op.valid() {
		return nan()
	}
	return binaryTable[op](first, second)
}
