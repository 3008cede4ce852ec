package wyrm

import (
	"sort"

	"github.com/shopspring/decimal"
)

// termBucket orders the four top-level categories of the standard
// order of terms: Variable < Number < Atom < Compound.
type termBucket int

const (
	bucketVariable termBucket = iota
	bucketNumber
	bucketAtom
	bucketCompound
)

// numberSubBucket breaks ties among numbers of equal value: float <
// integer < decimal, per spec.md §4.1.
type numberSubBucket int

const (
	subFloat numberSubBucket = iota
	subInteger
	subDecimal
)

func bucketOf(t Term) termBucket {
	switch t.(type) {
	case *Variable:
		return bucketVariable
	case Integer, Float, Decimal:
		return bucketNumber
	case Atom:
		return bucketAtom
	case Compound:
		return bucketCompound
	default:
		return bucketCompound
	}
}

func numberValue(t Term) (value decimal.Decimal, sub numberSubBucket) {
	switch x := t.(type) {
	case Float:
		return decimal.NewFromFloat(x.Value), subFloat
	case Integer:
		return decimal.NewFromInt(int64(x)), subInteger
	case Decimal:
		return x.Decimal, subDecimal
	}
	return decimal.Zero, subFloat
}

// compareTerms implements the standard order of terms used by @</2,
// compare/3, and sort/2. It returns -1, 0, or 1.
func compareTerms(a, b Term) int {
	a, b = dereference(a), dereference(b)

	ba, bb := bucketOf(a), bucketOf(b)
	if ba != bb {
		return cmpInt(int(ba), int(bb))
	}

	switch ba {
	case bucketVariable:
		return cmpUint(a.(*Variable).ID(), b.(*Variable).ID())
	case bucketNumber:
		av, asub := numberValue(a)
		bv, bsub := numberValue(b)
		if c := av.Cmp(bv); c != 0 {
			return c
		}
		return cmpInt(int(asub), int(bsub))
	case bucketAtom:
		return cmpString(string(a.(Atom)), string(b.(Atom)))
	default:
		ac, bc := a.(Compound), b.(Compound)
		if c := cmpInt(len(ac.Args), len(bc.Args)); c != 0 {
			return c
		}
		if c := cmpString(string(ac.Functor), string(bc.Functor)); c != 0 {
			return c
		}
		for i := range ac.Args {
			if c := compareTerms(ac.Args[i], bc.Args[i]); c != 0 {
				return c
			}
		}
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// termsEqual reports structural equality (==/2): same shape, including
// variable identity (no unification happens).
func termsEqual(a, b Term) bool {
	return compareTerms(a, b) == 0
}

// biSort2 implements sort/2: standard-order sort with duplicate
// removal.
func biSort2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	sorted := append([]Term{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool { return compareTerms(sorted[i], sorted[j]) < 0 })
	deduped := sorted[:0]
	for i, t := range sorted {
		if i == 0 || compareTerms(sorted[i-1], t) != 0 {
			deduped = append(deduped, t)
		}
	}
	return unify(e.trail, g.Args[1], ListFromSlice(deduped))
}

// biMsort2 implements msort/2: standard-order sort, duplicates kept.
func biMsort2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	sorted := append([]Term{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool { return compareTerms(sorted[i], sorted[j]) < 0 })
	return unify(e.trail, g.Args[1], ListFromSlice(sorted))
}

// biKeysort2 implements keysort/2: stable sort of a list of Key-Value
// pairs by Key alone.
func biKeysort2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	sorted := append([]Term{}, items...)
	keyOf := func(t Term) Term {
		c, ok := dereference(t).(Compound)
		if !ok || c.Functor != "-" || len(c.Args) != 2 {
			throwBall(typeError("pair", t, nil))
		}
		return c.Args[0]
	}
	sort.SliceStable(sorted, func(i, j int) bool { return compareTerms(keyOf(sorted[i]), keyOf(sorted[j])) < 0 })
	return unify(e.trail, g.Args[1], ListFromSlice(sorted))
}

// biPredsort3 implements predsort/3: sorts using a user predicate
// called as call(Pred, Order, A, B) that binds Order to <, =, or >; entries compared =
// are dropped, same as sort/2's duplicate removal but driven by the
// caller's own order.
func biPredsort3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	pred, list := goal.Args[0], goal.Args[1]
	items, ok := ListToSlice(list)
	if !ok {
		throwBall(typeError("list", list, nil))
	}
	sorted := append([]Term{}, items...)
	cmp := func(a, b Term) int {
		orderVar := NewVariable("")
		localBarrier := e.cps.depth()
		result := 0
		e.solve(extendGoal(pred, []Term{orderVar, a, b}), localBarrier, func() bool {
			switch dereference(orderVar) {
			case Atom("<"):
				result = -1
			case Atom(">"):
				result = 1
			default:
				result = 0
			}
			e.cps.truncateTo(localBarrier)
			return true
		})
		return result
	}
	sort.SliceStable(sorted, func(i, j int) bool { return cmp(sorted[i], sorted[j]) < 0 })
	deduped := sorted[:0]
	for i, t := range sorted {
		if i == 0 || cmp(sorted[i-1], t) != 0 {
			deduped = append(deduped, t)
		}
	}
	mark := e.trail.mark()
	if unify(e.trail, goal.Args[2], ListFromSlice(deduped)) {
		if k() {
			return true
		}
	}
	e.trail.rewindTo(mark)
	return false
}
