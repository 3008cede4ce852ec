package wyrm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Term is a Prolog term.
//
// The concrete types implementing Term are:
//   - Atom
//   - Integer
//   - Float
//   - Decimal
//   - *Variable
//   - Compound
//   - Opaque
type Term interface {
	isTerm()
}

// Atom is an interned Prolog atom. Two atoms with the same text compare
// equal; [internAtom] registers the text in the process-wide atom
// table so the engine can enumerate known atoms, but equality never
// depends on the table itself since Go already compares string-backed
// types by value.
type Atom string

func (Atom) isTerm() {}

var atomTable sync.Map // map[string]struct{}

// internAtom registers name in the process-wide atom table and returns
// the corresponding Atom. The table is never pruned: atoms live for the
// lifetime of the process, per spec.
func internAtom(name string) Atom {
	atomTable.LoadOrStore(name, struct{}{})
	return Atom(name)
}

// Indicator returns the predicate indicator "name/0" for this atom.
func (a Atom) Indicator() FunctorTag {
	return FunctorTag{Name: a, Arity: 0}
}

// Of builds a Compound with a as the principal functor.
func (a Atom) Of(args ...Term) Compound {
	return Compound{Functor: a, Args: args}
}

// Integer is a machine-word signed Prolog integer. Arithmetic that
// would overflow this range raises evaluation_error(int_overflow); use
// Decimal for arbitrary precision.
type Integer int64

func (Integer) isTerm() {}

// Float is an IEEE-754 double, optionally paired with an exact decimal
// representation used to render canonical textual forms (e.g. for
// number_chars/2 round-tripping) without losing precision to the
// nearest double.
type Float struct {
	Value float64
	Exact *decimal.Decimal
}

func (Float) isTerm() {}

// NewFloat builds a Float with no exact companion.
func NewFloat(v float64) Float {
	return Float{Value: v}
}

// NewExactFloat builds a Float that also carries its exact decimal
// source text, so that re-printing it is lossless.
func NewExactFloat(v float64, exact decimal.Decimal) Float {
	return Float{Value: v, Exact: &exact}
}

func (f Float) String() string {
	if f.Exact != nil {
		return f.Exact.String()
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// Decimal is an arbitrary-precision signed decimal (mantissa + scale),
// backed by shopspring/decimal. It is the Term variant used for
// big-integer and fixed-point arithmetic that must not silently lose
// precision the way Integer (word-sized) and Float (double) can.
type Decimal struct {
	decimal.Decimal
}

func (Decimal) isTerm() {}

// NewDecimal wraps d as a Term.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{d}
}

// Variable is a mutable, interior-reference Prolog variable cell.
// Ref is nil while the variable is unbound. Bindings are only ever
// installed through the trail (see trail.go), which is what makes them
// safe to undo on backtracking.
type Variable struct {
	id   uint64
	Name string
	Ref  Term
}

func (*Variable) isTerm() {}

var variableCounter atomic.Uint64

// NewVariable creates a fresh unbound variable. name is optional
// display metadata; pass "" for an anonymous variable.
func NewVariable(name string) *Variable {
	return &Variable{id: variableCounter.Add(1), Name: name}
}

// ID returns this variable's monotone creation order, used to implement
// the variable bucket of the standard order of terms. It is stable
// within one process run and carries no meaning across runs.
func (v *Variable) ID() uint64 { return v.id }

func (v *Variable) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("_G%d", v.id)
}

// Compound is a functor tag paired with an ordered argument vector.
// Args is treated as immutable once constructed; clone_for_activation
// (see clone.go) is how bodies get fresh per-activation arguments.
type Compound struct {
	Functor Atom
	Args    []Term
}

func (Compound) isTerm() {}

// Arity returns the number of arguments.
func (c Compound) Arity() int { return len(c.Args) }

// Indicator returns the predicate key (functor/arity) for this compound.
func (c Compound) Indicator() FunctorTag {
	return FunctorTag{Name: c.Functor, Arity: len(c.Args)}
}

// Opaque wraps a host-defined value (used for stream handles and
// similar external resources). Only identity equality applies: two
// Opaque terms unify only when they wrap the same id.
type Opaque struct {
	id    uint64
	Value any
}

func (Opaque) isTerm() {}

var opaqueCounter atomic.Uint64

// NewOpaque wraps value in a fresh Opaque term with its own identity.
func NewOpaque(value any) Opaque {
	return Opaque{id: opaqueCounter.Add(1), Value: value}
}

// FunctorTag is an interned (name, arity) pair identifying a compound
// shape or a predicate. It is also used directly as a clause database
// key.
type FunctorTag struct {
	Name  Atom
	Arity int
}

func (t FunctorTag) String() string {
	return fmt.Sprintf("%s/%d", t.Name, t.Arity)
}

// Term returns the indicator written as a Prolog term, name/arity.
func (t FunctorTag) Term() Term {
	return Atom("/").Of(t.Name, Integer(t.Arity))
}

// dereference follows a variable's binding chain to the term it
// ultimately denotes, or to the final unbound variable. It performs no
// allocation.
func dereference(t Term) Term {
	for {
		v, ok := t.(*Variable)
		if !ok || v.Ref == nil {
			return t
		}
		t = v.Ref
	}
}

// Deref follows t's variable binding chain to the term it ultimately
// denotes. External builtin packages (x/postgres) use this instead of
// the unexported dereference, since they sit outside this package.
func Deref(t Term) Term { return dereference(t) }

// IsCallable reports whether t (after dereferencing) is an atom or
// compound, i.e. a term that call/1 can execute.
func IsCallable(t Term) bool {
	switch dereference(t).(type) {
	case Atom, Compound:
		return true
	default:
		return false
	}
}

// IsNumber reports whether t (after dereferencing) is a numeric term.
func IsNumber(t Term) bool {
	switch dereference(t).(type) {
	case Integer, Float, Decimal:
		return true
	default:
		return false
	}
}

// List helpers. wyrm represents lists the standard Prolog way:
// '[]' for the empty list, '.'/2 (written here with functor ".") for
// cons cells. ListFromSlice / ListToSlice convert to/from []Term for
// builtins that want to work with native slices.

// EmptyList is the canonical empty-list atom.
const EmptyList = Atom("[]")

// Cons builds a single list cell head.tail.
func Cons(head, tail Term) Compound {
	return Compound{Functor: ".", Args: []Term{head, tail}}
}

// ListFromSlice builds a proper list out of items.
func ListFromSlice(items []Term) Term {
	var list Term = EmptyList
	for i := len(items) - 1; i >= 0; i-- {
		list = Cons(items[i], list)
	}
	return list
}

// ListToSlice flattens a proper list into a slice. ok is false if t is
// not, after dereferencing recursively, a proper list.
func ListToSlice(t Term) (items []Term, ok bool) {
	for {
		switch x := dereference(t).(type) {
		case Atom:
			if x == EmptyList {
				return items, true
			}
			return nil, false
		case Compound:
			if x.Functor != "." || len(x.Args) != 2 {
				return nil, false
			}
			items = append(items, x.Args[0])
			t = x.Args[1]
		default:
			return nil, false
		}
	}
}

// isVariable reports whether t (after dereferencing) is an
// unbound variable, used by builtins to distinguish "not yet known"
// from "known wrong type".
func isVariable(t Term) bool {
	_, ok := dereference(t).(*Variable)
	return ok
}

func needsQuote(a Atom) bool {
	s := string(a)
	if s == "" {
		return true
	}
	if s == "[]" || s == "{}" || s == "!" || s == ";" {
		return false
	}
	r := rune(s[0])
	if r < 'a' || r > 'z' {
		return true
	}
	for _, c := range s {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return true
		}
	}
	return false
}

// text renders a term using the minimal, operator-free canonical form,
// quoting atoms that need it. Inside this package it backs error
// messages, writeq/1 and write_canonical/1 output, Solution.String and
// some first-argument index keys. A full writer honoring the operator table is the text
// formatter's job (out of scope, see spec.md §1).
func text(t Term) string {
	var sb strings.Builder
	writeTerm(&sb, t)
	return sb.String()
}

func writeTerm(sb *strings.Builder, t Term) {
	switch x := t.(type) {
	case Atom:
		if needsQuote(x) {
			sb.WriteByte('\'')
			sb.WriteString(strings.ReplaceAll(string(x), "'", "\\'"))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(string(x))
		}
	case Integer:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		sb.WriteString(x.String())
	case Decimal:
		sb.WriteString(x.Decimal.String())
	case *Variable:
		sb.WriteString(x.String())
	case Opaque:
		fmt.Fprintf(sb, "<opaque:%d>", x.id)
	case Compound:
		writeCompound(sb, x)
	default:
		fmt.Fprintf(sb, "%v", t)
	}
}

func writeCompound(sb *strings.Builder, c Compound) {
	if c.Functor == "." && len(c.Args) == 2 {
		sb.WriteByte('[')
		writeTerm(sb, c.Args[0])
		rest := c.Args[1]
		for {
			switch x := dereference(rest).(type) {
			case Compound:
				if x.Functor == "." && len(x.Args) == 2 {
					sb.WriteByte(',')
					writeTerm(sb, x.Args[0])
					rest = x.Args[1]
					continue
				}
			case Atom:
				if x == EmptyList {
					sb.WriteByte(']')
					return
				}
			}
			sb.WriteByte('|')
			writeTerm(sb, rest)
			sb.WriteByte(']')
			return
		}
	}
	writeTerm(sb, c.Functor)
	sb.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeTerm(sb, arg)
	}
	sb.WriteByte(')')
}

// floatOverflowed reports whether v escaped the finite double range.
func floatOverflowed(v float64) bool {
	return math.IsInf(v, 0) || math.IsNaN(v)
}
