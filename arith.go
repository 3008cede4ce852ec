package wyrm

import (
	"math"

	"github.com/shopspring/decimal"
)

// numKind is the result category of the promotion table described in
// spec.md §9: integer, float, or arbitrary-precision decimal.
type numKind int

const (
	kindInteger numKind = iota
	kindFloat
	kindDecimal
)

func kindOf(t Term) numKind {
	switch t.(type) {
	case Integer:
		return kindInteger
	case Decimal:
		return kindDecimal
	default:
		return kindFloat
	}
}

// promote returns the result kind for combining a and b, following
// spec.md §4.7: decimal absorbs everything, float absorbs integer,
// integer only survives when both operands are integers.
func promote(a, b numKind) numKind {
	if a == kindDecimal || b == kindDecimal {
		return kindDecimal
	}
	if a == kindFloat || b == kindFloat {
		return kindFloat
	}
	return kindInteger
}

func asFloat(t Term) float64 {
	switch x := t.(type) {
	case Integer:
		return float64(x)
	case Float:
		return x.Value
	case Decimal:
		f, _ := x.Decimal.Float64()
		return f
	}
	return 0
}

func asDecimal(t Term) decimal.Decimal {
	switch x := t.(type) {
	case Integer:
		return decimal.NewFromInt(int64(x))
	case Float:
		return decimal.NewFromFloat(x.Value)
	case Decimal:
		return x.Decimal
	}
	return decimal.Zero
}

func asInt(e *Engine, t Term, context Term) int64 {
	x, ok := t.(Integer)
	if !ok {
		throwBall(typeError("integer", t, context))
	}
	return int64(x)
}

func numberTerm(kind numKind, i int64, f float64, d decimal.Decimal) Term {
	switch kind {
	case kindInteger:
		return Integer(i)
	case kindDecimal:
		return NewDecimal(d)
	default:
		if floatOverflowed(f) {
			throwBall(evaluationError("float_overflow", nil))
		}
		return NewFloat(f)
	}
}

// evaluate reduces an arithmetic expression term to a number,
// implementing the operator set of spec.md §4.7.
func (e *Engine) evaluate(t Term) Term {
	t = dereference(t)
	switch x := t.(type) {
	case Integer, Float, Decimal:
		return x
	case *Variable:
		throwBall(instantiationError(nil))
	case Atom:
		if fn, ok := nullaryArith[x]; ok {
			return fn(e)
		}
		throwBall(typeError("evaluable", piTerm(x, 0), nil))
	case Compound:
		switch len(x.Args) {
		case 1:
			fn, ok := unaryArith[x.Functor]
			if !ok {
				throwBall(typeError("evaluable", piTerm(x.Functor, 1), nil))
			}
			return fn(e, e.evaluate(x.Args[0]))
		case 2:
			fn, ok := binaryArith[x.Functor]
			if !ok {
				throwBall(typeError("evaluable", piTerm(x.Functor, 2), nil))
			}
			return fn(e, e.evaluate(x.Args[0]), e.evaluate(x.Args[1]))
		}
	}
	throwBall(typeError("evaluable", t, nil))
	return nil
}

// numericCompare orders two already-evaluated numbers by value, per
// spec.md §4.7's comparison predicates (=:=, =\=, <, >, =<, >=).
func numericCompare(a, b Term) int {
	return asDecimal(a).Cmp(asDecimal(b))
}

type unaryFn func(e *Engine, a Term) Term
type binaryFn func(e *Engine, a, b Term) Term
type nullaryFn func(e *Engine) Term

var nullaryArith = map[Atom]nullaryFn{
	"pi":      func(e *Engine) Term { return NewFloat(math.Pi) },
	"e":       func(e *Engine) Term { return NewFloat(math.E) },
	"inf":     func(e *Engine) Term { return NewFloat(math.Inf(1)) },
	"infinite": func(e *Engine) Term { return NewFloat(math.Inf(1)) },
	"nan":     func(e *Engine) Term { return NewFloat(math.NaN()) },
	"epsilon": func(e *Engine) Term { return NewFloat(2.220446049250313e-16) },
	"random":  func(e *Engine) Term { return NewFloat(e.rng.Float64()) },
	"max_tagged_integer": func(e *Engine) Term { return Integer(1<<63 - 1) },
	"min_tagged_integer": func(e *Engine) Term { return Integer(-1 << 63) },
}

var unaryArith = map[Atom]unaryFn{
	"-": func(e *Engine, a Term) Term {
		switch kindOf(a) {
		case kindInteger:
			return Integer(-int64(a.(Integer)))
		case kindDecimal:
			return NewDecimal(a.(Decimal).Decimal.Neg())
		default:
			return NewFloat(-asFloat(a))
		}
	},
	"+": func(e *Engine, a Term) Term { return a },
	"random": func(e *Engine, a Term) Term {
		n := asInt(e, a, nil)
		if n <= 0 {
			throwBall(evaluationError("undefined", nil))
		}
		return Integer(e.rng.Int64N(n))
	},
	"abs": func(e *Engine, a Term) Term {
		switch kindOf(a) {
		case kindInteger:
			v := int64(a.(Integer))
			if v < 0 {
				v = -v
			}
			return Integer(v)
		case kindDecimal:
			return NewDecimal(a.(Decimal).Decimal.Abs())
		default:
			return NewFloat(math.Abs(asFloat(a)))
		}
	},
	"sign": func(e *Engine, a Term) Term {
		switch kindOf(a) {
		case kindInteger:
			v := int64(a.(Integer))
			switch {
			case v > 0:
				return Integer(1)
			case v < 0:
				return Integer(-1)
			default:
				return Integer(0)
			}
		default:
			f := asFloat(a)
			switch {
			case f > 0:
				return NewFloat(1)
			case f < 0:
				return NewFloat(-1)
			default:
				return NewFloat(0)
			}
		}
	},
	"sqrt":    func(e *Engine, a Term) Term { return checkedFloat(math.Sqrt(asFloat(a))) },
	"sin":     func(e *Engine, a Term) Term { return NewFloat(math.Sin(asFloat(a))) },
	"cos":     func(e *Engine, a Term) Term { return NewFloat(math.Cos(asFloat(a))) },
	"tan":     func(e *Engine, a Term) Term { return NewFloat(math.Tan(asFloat(a))) },
	"asin":    func(e *Engine, a Term) Term { return NewFloat(math.Asin(asFloat(a))) },
	"acos":    func(e *Engine, a Term) Term { return NewFloat(math.Acos(asFloat(a))) },
	"atan":    func(e *Engine, a Term) Term { return NewFloat(math.Atan(asFloat(a))) },
	"exp":     func(e *Engine, a Term) Term { return NewFloat(math.Exp(asFloat(a))) },
	"log":     func(e *Engine, a Term) Term { return checkedFloat(math.Log(asFloat(a))) },
	"float": func(e *Engine, a Term) Term { return NewFloat(asFloat(a)) },
	"integer": func(e *Engine, a Term) Term { return Integer(int64(math.Round(asFloat(a)))) },
	"floor":   func(e *Engine, a Term) Term { return Integer(int64(math.Floor(asFloat(a)))) },
	"ceiling": func(e *Engine, a Term) Term { return Integer(int64(math.Ceil(asFloat(a)))) },
	"round":   func(e *Engine, a Term) Term { return Integer(int64(math.Round(asFloat(a)))) },
	"truncate": func(e *Engine, a Term) Term { return Integer(int64(math.Trunc(asFloat(a)))) },
	"float_integer_part":    func(e *Engine, a Term) Term { return NewFloat(math.Trunc(asFloat(a))) },
	"float_fractional_part": func(e *Engine, a Term) Term { f := asFloat(a); return NewFloat(f - math.Trunc(f)) },
	"\\": func(e *Engine, a Term) Term { return Integer(^asInt(e, a, nil)) },
	"msb": func(e *Engine, a Term) Term {
		v := asInt(e, a, nil)
		if v <= 0 {
			throwBall(evaluationError("undefined", nil))
		}
		n := -1
		for v > 0 {
			v >>= 1
			n++
		}
		return Integer(n)
	},
	"succ": func(e *Engine, a Term) Term { return Integer(asInt(e, a, nil) + 1) },
}

func checkedFloat(v float64) Term {
	if floatOverflowed(v) {
		throwBall(evaluationError("undefined", nil))
	}
	return NewFloat(v)
}

var binaryArith = map[Atom]binaryFn{
	"+": func(e *Engine, a, b Term) Term {
		return arithAdditive(a, b,
			func(x, y int64) int64 { return x + y },
			func(x, y float64) float64 { return x + y },
			func(x, y decimal.Decimal) decimal.Decimal { return x.Add(y) })
	},
	"-": func(e *Engine, a, b Term) Term {
		return arithAdditive(a, b,
			func(x, y int64) int64 { return x - y },
			func(x, y float64) float64 { return x - y },
			func(x, y decimal.Decimal) decimal.Decimal { return x.Sub(y) })
	},
	"*": func(e *Engine, a, b Term) Term {
		return arithAdditive(a, b,
			func(x, y int64) int64 { return x * y },
			func(x, y float64) float64 { return x * y },
			func(x, y decimal.Decimal) decimal.Decimal { return x.Mul(y) })
	},
	"/": func(e *Engine, a, b Term) Term {
		kind := promote(kindOf(a), kindOf(b))
		if kind == kindInteger {
			x, y := int64(a.(Integer)), int64(b.(Integer))
			if y == 0 {
				throwBall(evaluationError("zero_divisor", nil))
			}
			if x%y == 0 {
				return Integer(x / y)
			}
			return NewFloat(float64(x) / float64(y))
		}
		if kind == kindDecimal {
			yd := asDecimal(b)
			if yd.IsZero() {
				throwBall(evaluationError("zero_divisor", nil))
			}
			return NewDecimal(asDecimal(a).Div(yd))
		}
		y := asFloat(b)
		if y == 0 {
			throwBall(evaluationError("zero_divisor", nil))
		}
		return NewFloat(asFloat(a) / y)
	},
	"//": func(e *Engine, a, b Term) Term {
		x, y := asInt(e, a, nil), asInt(e, b, nil)
		if y == 0 {
			throwBall(evaluationError("zero_divisor", nil))
		}
		return Integer(x / y)
	},
	"div": func(e *Engine, a, b Term) Term {
		x, y := asInt(e, a, nil), asInt(e, b, nil)
		if y == 0 {
			throwBall(evaluationError("zero_divisor", nil))
		}
		q := x / y
		if (x%y != 0) && ((x < 0) != (y < 0)) {
			q--
		}
		return Integer(q)
	},
	"mod": func(e *Engine, a, b Term) Term {
		x, y := asInt(e, a, nil), asInt(e, b, nil)
		if y == 0 {
			throwBall(evaluationError("zero_divisor", nil))
		}
		m := x % y
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return Integer(m)
	},
	"rem": func(e *Engine, a, b Term) Term {
		x, y := asInt(e, a, nil), asInt(e, b, nil)
		if y == 0 {
			throwBall(evaluationError("zero_divisor", nil))
		}
		return Integer(x % y)
	},
	"min": func(e *Engine, a, b Term) Term {
		if numericCompare(a, b) <= 0 {
			return a
		}
		return b
	},
	"max": func(e *Engine, a, b Term) Term {
		if numericCompare(a, b) >= 0 {
			return a
		}
		return b
	},
	"**": func(e *Engine, a, b Term) Term { return checkedFloat(math.Pow(asFloat(a), asFloat(b))) },
	"^": func(e *Engine, a, b Term) Term {
		if kindOf(a) == kindInteger && kindOf(b) == kindInteger {
			exp := int64(b.(Integer))
			if exp < 0 {
				return checkedFloat(math.Pow(asFloat(a), asFloat(b)))
			}
			base := int64(a.(Integer))
			result := int64(1)
			for i := int64(0); i < exp; i++ {
				next := result * base
				if !decimal.NewFromInt(result).Mul(decimal.NewFromInt(base)).Equal(decimal.NewFromInt(next)) {
					throwBall(evaluationError("int_overflow", nil))
				}
				result = next
			}
			return Integer(result)
		}
		return checkedFloat(math.Pow(asFloat(a), asFloat(b)))
	},
	"atan2":  func(e *Engine, a, b Term) Term { return NewFloat(math.Atan2(asFloat(a), asFloat(b))) },
	"atan":   func(e *Engine, a, b Term) Term { return NewFloat(math.Atan2(asFloat(a), asFloat(b))) },
	"copysign": func(e *Engine, a, b Term) Term { return NewFloat(math.Copysign(asFloat(a), asFloat(b))) },
	"gcd": func(e *Engine, a, b Term) Term {
		x, y := asInt(e, a, nil), asInt(e, b, nil)
		if x < 0 {
			x = -x
		}
		if y < 0 {
			y = -y
		}
		for y != 0 {
			x, y = y, x%y
		}
		return Integer(x)
	},
	">>": func(e *Engine, a, b Term) Term { return Integer(asInt(e, a, nil) >> uint(asInt(e, b, nil))) },
	"<<": func(e *Engine, a, b Term) Term {
		x, n := asInt(e, a, nil), asInt(e, b, nil)
		r := x << uint(n)
		if n >= 0 && r>>uint(n) != x {
			throwBall(evaluationError("int_overflow", nil))
		}
		return Integer(r)
	},
	"/\\": func(e *Engine, a, b Term) Term { return Integer(asInt(e, a, nil) & asInt(e, b, nil)) },
	"\\/": func(e *Engine, a, b Term) Term { return Integer(asInt(e, a, nil) | asInt(e, b, nil)) },
	"xor": func(e *Engine, a, b Term) Term { return Integer(asInt(e, a, nil) ^ asInt(e, b, nil)) },
	"random": func(e *Engine, a, b Term) Term {
		lo, hi := asInt(e, a, nil), asInt(e, b, nil)
		if hi <= lo {
			throwBall(evaluationError("undefined", nil))
		}
		return Integer(lo + e.rng.Int64N(hi-lo))
	},
	"random_float": func(e *Engine, a, b Term) Term {
		lo, hi := asFloat(a), asFloat(b)
		return NewFloat(lo + e.rng.Float64()*(hi-lo))
	},
}

// arithAdditive implements the int/float/decimal promotion dance
// shared by +, -, and *.
func arithAdditive(a, b Term, intFn func(int64, int64) int64, floatFn func(float64, float64) float64, decFn func(decimal.Decimal, decimal.Decimal) decimal.Decimal) Term {
	kind := promote(kindOf(a), kindOf(b))
	switch kind {
	case kindInteger:
		x, y := int64(a.(Integer)), int64(b.(Integer))
		r := intFn(x, y)
		if !decFn(decimal.NewFromInt(x), decimal.NewFromInt(y)).Equal(decimal.NewFromInt(r)) {
			throwBall(evaluationError("int_overflow", nil))
		}
		return Integer(r)
	case kindDecimal:
		return NewDecimal(decFn(asDecimal(a), asDecimal(b)))
	default:
		return checkedFloat(floatFn(asFloat(a), asFloat(b)))
	}
}

// random/1 as a predicate (not the is/2 functor) binds X to a float in
// [0,1), matching common Prolog dialects' random/1.
func biRandom(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	mark := e.trail.mark()
	if unifyWithUndo(e.trail, goal.Args[0], NewFloat(e.rng.Float64())) {
		if k() {
			return true
		}
	}
	e.trail.rewindTo(mark)
	return false
}
