package wyrm

// registerBuiltins installs every native predicate into e.builtins. It
// is called once from New, before the bootstrap library is loaded, so
// the bootstrap clauses can themselves call these.
func registerBuiltins(e *Engine) {
	registerCoreBuiltins(e)
	registerCompareBuiltins(e)
	registerDatabaseBuiltins(e)
	registerTermBuiltins(e)
	registerAtomBuiltins(e)
	registerListBuiltins(e)
	registerFindallBuiltins(e)
	registerDCGBuiltins(e)
	registerFlagStreamBuiltins(e)
}

func def(e *Engine, name Atom, arity int, fn Builtin) {
	e.builtins[FunctorTag{Name: name, Arity: arity}] = fn
}

// det wraps a deterministic, argument-validating builtin: fn runs once
// and either leaves bindings in place and returns true (found) or
// false (reject). det handles the trail rewind and the k() dance so
// each individual builtin body can read like a plain predicate.
func det(fn func(e *Engine, goal Compound) bool) Builtin {
	return func(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
		mark := e.trail.mark()
		if fn(e, goal) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}
}

func registerCoreBuiltins(e *Engine) {
	def(e, "is", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[0], e.evaluate(g.Args[1]))
	}))
	def(e, "=:=", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) == 0
	}))
	def(e, "=\\=", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) != 0
	}))
	def(e, "<", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) < 0
	}))
	def(e, ">", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) > 0
	}))
	def(e, "=<", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) <= 0
	}))
	def(e, ">=", 2, det(func(e *Engine, g Compound) bool {
		return numericCompare(e.evaluate(g.Args[0]), e.evaluate(g.Args[1])) >= 0
	}))
	def(e, "random", 1, biRandom)

	def(e, "=", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[0], g.Args[1])
	}))
	def(e, "\\=", 2, func(e *Engine, barrier CPMark, g Compound, k Cont) bool {
		mark := e.trail.mark()
		ok := unify(e.trail, g.Args[0], g.Args[1])
		e.trail.rewindTo(mark)
		if ok {
			return false
		}
		return k()
	})
	def(e, "unify_with_occurs_check", 2, det(func(e *Engine, g Compound) bool {
		return unifyOccursCheck(e.trail, g.Args[0], g.Args[1])
	}))

	def(e, "halt", 0, func(e *Engine, barrier CPMark, g Compound, k Cont) bool {
		panic(haltPanic{code: 0})
	})
	def(e, "halt", 1, func(e *Engine, barrier CPMark, g Compound, k Cont) bool {
		code := int(asInt(e, e.evaluate(g.Args[0]), nil))
		panic(haltPanic{code: code})
	})
}

func registerCompareBuiltins(e *Engine) {
	def(e, "==", 2, det(func(e *Engine, g Compound) bool { return termsEqual(g.Args[0], g.Args[1]) }))
	def(e, "\\==", 2, det(func(e *Engine, g Compound) bool { return !termsEqual(g.Args[0], g.Args[1]) }))
	def(e, "@<", 2, det(func(e *Engine, g Compound) bool { return compareTerms(g.Args[0], g.Args[1]) < 0 }))
	def(e, "@>", 2, det(func(e *Engine, g Compound) bool { return compareTerms(g.Args[0], g.Args[1]) > 0 }))
	def(e, "@=<", 2, det(func(e *Engine, g Compound) bool { return compareTerms(g.Args[0], g.Args[1]) <= 0 }))
	def(e, "@>=", 2, det(func(e *Engine, g Compound) bool { return compareTerms(g.Args[0], g.Args[1]) >= 0 }))
	def(e, "compare", 3, det(func(e *Engine, g Compound) bool {
		c := compareTerms(g.Args[1], g.Args[2])
		var order Atom
		switch {
		case c < 0:
			order = "<"
		case c > 0:
			order = ">"
		default:
			order = "="
		}
		return unify(e.trail, g.Args[0], order)
	}))

	def(e, "sort", 2, det(biSort2))
	def(e, "msort", 2, det(biMsort2))
	def(e, "keysort", 2, det(biKeysort2))
	def(e, "predsort", 3, biPredsort3)
}
