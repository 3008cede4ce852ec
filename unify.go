package wyrm

// bind binds v to t and records the binding on tr so it can be undone.
func bind(tr *trail, v *Variable, t Term) {
	v.Ref = t
	tr.pushBinding(v)
}

// unify attempts to make a and b syntactically equal, binding
// variables as needed and recording every binding on tr. It reports
// success or failure but never rewinds on its own; callers that want
// an all-or-nothing attempt should use unifyWithUndo.
func unify(tr *trail, a, b Term) bool {
	a, b = dereference(a), dereference(b)

	if a == b {
		return true
	}

	if av, ok := a.(*Variable); ok {
		if bv, ok := b.(*Variable); ok && av == bv {
			return true
		}
		bind(tr, av, b)
		return true
	}
	if bv, ok := b.(*Variable); ok {
		bind(tr, bv, a)
		return true
	}

	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x.Value == y.Value
	case Decimal:
		y, ok := b.(Decimal)
		return ok && x.Decimal.Equal(y.Decimal)
	case Opaque:
		y, ok := b.(Opaque)
		return ok && x.id == y.id
	case Compound:
		y, ok := b.(Compound)
		if !ok || x.Functor != y.Functor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !unify(tr, x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// unifyWithUndo attempts to unify a and b, and rewinds every binding it
// made if the attempt fails. This is the operation exposed to
// predicates that just want a clean yes/no.
func unifyWithUndo(tr *trail, a, b Term) bool {
	mark := tr.mark()
	if unify(tr, a, b) {
		return true
	}
	tr.rewindTo(mark)
	return false
}

// unifyOccursCheck behaves like unify but additionally refuses to bind
// a variable to a term that contains it, preventing cyclic structures.
func unifyOccursCheck(tr *trail, a, b Term) bool {
	a, b = dereference(a), dereference(b)

	if a == b {
		return true
	}

	if av, ok := a.(*Variable); ok {
		if bv, ok := b.(*Variable); ok && av == bv {
			return true
		}
		if occurs(av, b) {
			return false
		}
		bind(tr, av, b)
		return true
	}
	if bv, ok := b.(*Variable); ok {
		if occurs(bv, a) {
			return false
		}
		bind(tr, bv, a)
		return true
	}

	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x.Value == y.Value
	case Decimal:
		y, ok := b.(Decimal)
		return ok && x.Decimal.Equal(y.Decimal)
	case Opaque:
		y, ok := b.(Opaque)
		return ok && x.id == y.id
	case Compound:
		y, ok := b.(Compound)
		if !ok || x.Functor != y.Functor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !unifyOccursCheck(tr, x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// unifyOccursCheckWithUndo is the rewind-on-failure wrapper around
// unifyOccursCheck, mirroring unifyWithUndo.
func unifyOccursCheckWithUndo(tr *trail, a, b Term) bool {
	mark := tr.mark()
	if unifyOccursCheck(tr, a, b) {
		return true
	}
	tr.rewindTo(mark)
	return false
}

// occurs reports whether v appears anywhere in t, following bindings.
// It is iterative to match the clone walker's discipline for deeply
// nested terms.
func occurs(v *Variable, t Term) bool {
	stack := []Term{t}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := dereference(stack[n])
		stack = stack[:n]
		switch x := cur.(type) {
		case *Variable:
			if x == v {
				return true
			}
		case Compound:
			stack = append(stack, x.Args...)
		}
	}
	return false
}
