package wyrm

// registerTermBuiltins installs type-checking and term-inspection
// predicates (spec.md §4.13): functor/3, arg/3, =../2, copy_term/2,
// and the var/1 family.
func registerTermBuiltins(e *Engine) {
	def(e, "var", 1, det(func(e *Engine, g Compound) bool { return isVariable(g.Args[0]) }))
	def(e, "nonvar", 1, det(func(e *Engine, g Compound) bool { return !isVariable(g.Args[0]) }))
	def(e, "atom", 1, det(func(e *Engine, g Compound) bool { _, ok := dereference(g.Args[0]).(Atom); return ok }))
	def(e, "number", 1, det(func(e *Engine, g Compound) bool { return IsNumber(g.Args[0]) }))
	def(e, "integer", 1, det(func(e *Engine, g Compound) bool { _, ok := dereference(g.Args[0]).(Integer); return ok }))
	def(e, "float", 1, det(func(e *Engine, g Compound) bool { _, ok := dereference(g.Args[0]).(Float); return ok }))
	def(e, "compound", 1, det(func(e *Engine, g Compound) bool { _, ok := dereference(g.Args[0]).(Compound); return ok }))
	def(e, "callable", 1, det(func(e *Engine, g Compound) bool { return IsCallable(g.Args[0]) }))
	def(e, "atomic", 1, det(func(e *Engine, g Compound) bool {
		switch dereference(g.Args[0]).(type) {
		case Atom, Integer, Float, Decimal, Opaque:
			return true
		default:
			return false
		}
	}))
	def(e, "is_list", 1, det(func(e *Engine, g Compound) bool {
		_, ok := ListToSlice(g.Args[0])
		return ok
	}))
	def(e, "ground", 1, det(func(e *Engine, g Compound) bool { return isGround(g.Args[0]) }))

	def(e, "functor", 3, det(biFunctor3))
	def(e, "arg", 3, det(biArg3))
	def(e, "=..", 2, det(biUniv2))
	def(e, "copy_term", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[1], CopyTerm(g.Args[0]))
	}))

	def(e, "succ", 2, det(biSucc2))
	def(e, "plus", 3, det(biPlus3))
}

func isGround(t Term) bool {
	switch x := dereference(t).(type) {
	case *Variable:
		return false
	case Compound:
		for _, a := range x.Args {
			if !isGround(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func biFunctor3(e *Engine, g Compound) bool {
	t := dereference(g.Args[0])
	if !isVariable(t) {
		switch x := t.(type) {
		case Compound:
			return unify(e.trail, g.Args[1], x.Functor) && unify(e.trail, g.Args[2], Integer(x.Arity()))
		default:
			return unify(e.trail, g.Args[1], x) && unify(e.trail, g.Args[2], Integer(0))
		}
	}

	name := dereference(g.Args[1])
	arityTerm := dereference(g.Args[2])
	if isVariable(name) || isVariable(arityTerm) {
		throwBall(instantiationError(nil))
	}
	arity, ok := arityTerm.(Integer)
	if !ok {
		throwBall(typeError("integer", arityTerm, nil))
	}
	if arity == 0 {
		return unify(e.trail, g.Args[0], name)
	}
	atomName, ok := name.(Atom)
	if !ok {
		throwBall(typeError("atom", name, nil))
	}
	args := make([]Term, arity)
	for i := range args {
		args[i] = NewVariable("")
	}
	return unify(e.trail, g.Args[0], Compound{Functor: atomName, Args: args})
}

func biArg3(e *Engine, g Compound) bool {
	nTerm := dereference(g.Args[0])
	c, ok := dereference(g.Args[1]).(Compound)
	if !ok {
		throwBall(typeError("compound", g.Args[1], nil))
	}
	if isVariable(nTerm) {
		throwBall(instantiationError(nil))
	}
	n, ok := nTerm.(Integer)
	if !ok {
		throwBall(typeError("integer", nTerm, nil))
	}
	if n < 0 {
		throwBall(domainError("not_less_than_zero", n, nil))
	}
	if n < 1 || int(n) > len(c.Args) {
		return false
	}
	return unify(e.trail, g.Args[2], c.Args[n-1])
}

func biUniv2(e *Engine, g Compound) bool {
	t := dereference(g.Args[0])
	if !isVariable(t) {
		switch x := t.(type) {
		case Compound:
			items := append([]Term{x.Functor}, x.Args...)
			return unify(e.trail, g.Args[1], ListFromSlice(items))
		default:
			return unify(e.trail, g.Args[1], ListFromSlice([]Term{x}))
		}
	}
	items, ok := ListToSlice(g.Args[1])
	if !ok || len(items) == 0 {
		throwBall(instantiationError(nil))
	}
	if len(items) == 1 {
		return unify(e.trail, g.Args[0], items[0])
	}
	functor, ok := dereference(items[0]).(Atom)
	if !ok {
		throwBall(typeError("atom", items[0], nil))
	}
	return unify(e.trail, g.Args[0], Compound{Functor: functor, Args: items[1:]})
}

func biSucc2(e *Engine, g Compound) bool {
	a := dereference(g.Args[0])
	if !isVariable(a) {
		n, ok := a.(Integer)
		if !ok || n < 0 {
			throwBall(typeError("not_less_than_zero", a, nil))
		}
		return unify(e.trail, g.Args[1], Integer(n+1))
	}
	b := dereference(g.Args[1])
	if isVariable(b) {
		throwBall(instantiationError(nil))
	}
	n, ok := b.(Integer)
	if !ok || n < 0 {
		throwBall(typeError("not_less_than_zero", b, nil))
	}
	if n == 0 {
		return false
	}
	return unify(e.trail, g.Args[0], Integer(n-1))
}

func biPlus3(e *Engine, g Compound) bool {
	a, b, c := dereference(g.Args[0]), dereference(g.Args[1]), dereference(g.Args[2])
	switch {
	case !isVariable(a) && !isVariable(b):
		return unify(e.trail, g.Args[2], Integer(mustInt(a)+mustInt(b)))
	case !isVariable(a) && !isVariable(c):
		return unify(e.trail, g.Args[1], Integer(mustInt(c)-mustInt(a)))
	case !isVariable(b) && !isVariable(c):
		return unify(e.trail, g.Args[0], Integer(mustInt(c)-mustInt(b)))
	default:
		throwBall(instantiationError(nil))
		return false
	}
}

func mustInt(t Term) Integer {
	n, ok := t.(Integer)
	if !ok {
		throwBall(typeError("integer", t, nil))
	}
	return n
}
