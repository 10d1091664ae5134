package calc

import "math"

// maxFactorial is the largest n whose factorial is finite in float64.
const maxFactorial = 170

type unaryFunc func(x float64, mode AngleMode) float64

// unaryTable is indexed by UnaryFn.
var unaryTable = [fnCount]unaryFunc{
	FnSin:        trig(math.Sin),
	FnCos:        trig(math.Cos),
	FnTan:        trig(math.Tan),
	FnAsin:       inverseTrig(math.Asin),
	FnAcos:       inverseTrig(math.Acos),
	FnAtan:       inverseTrig(math.Atan),
	FnLog10:      plain(math.Log10),
	FnLn:         plain(math.Log),
	FnSqrt:       plain(math.Sqrt),
	FnCbrt:       plain(math.Cbrt),
	FnSquare:     plain(func(x float64) float64 { return math.Pow(x, 2) }),
	FnCube:       plain(func(x float64) float64 { return math.Pow(x, 3) }),
	FnFactorial:  plain(Factorial),
	FnExp:        plain(math.Exp),
	FnReciprocal: plain(func(x float64) float64 { return 1 / x }),
	FnPi:         constant(math.Pi),
	FnE:          constant(math.E),
}

// Call applies fn to x under the given angle mode.
func Call(fn UnaryFn, x float64, mode AngleMode) float64 {
	if !fn.valid() {
		return nan()
	}
	return unaryTable[fn](x, mode)
}

// trig converts degree input to radians before calling f.
func trig(f func(float64) float64) unaryFunc {
	return func(x float64, mode AngleMode) float64 {
		if mode == Degrees {
			x = x * math.Pi / 180
		}
		return f(x)
	}
}

// inverseTrig converts f's radian result to degrees.
func inverseTrig(f func(float64) float64) unaryFunc {
	return func(x float64, mode AngleMode) float64 {
		r := f(x)
		if mode == Degrees {
			r = r * 180 / math.Pi
		}
		return r
	}
}

func plain(f func(float64) float64) unaryFunc {
	return func(x float64, _ AngleMode) float64 {
		return f(x)
	}
}

func constant(v float64) unaryFunc {
	return func(float64, AngleMode) float64 {
		return v
	}
}

// Factorial returns n! for non-negative integers. Negative and fractional
// input is a domain error and yields NaN; anything above 170 overflows to +Inf.
func Factorial(n float64) float64 {
	if math.IsNaN(n) || n < 0 || n != math.Trunc(n) {
		return nan()
	}
	if n > maxFactorial {
		return math.Inf(1)
	}
	r := 1.0
	for i := 2.0; i <= n; i++ {
		r *= i
	}
	return r
}

func nan() float64 {
	return math.NaN()
}
