package wyrm

// registerDatabaseBuiltins installs assert/1, asserta/1, assertz/1,
// retract/1, retractall/1, abolish/1, and current_predicate/1 on top
// of the Database API (spec.md §4.5 addition).
func registerDatabaseBuiltins(e *Engine) {
	def(e, "assert", 1, det(func(e *Engine, g Compound) bool { return e.biAssert(g.Args[0], true) }))
	def(e, "assertz", 1, det(func(e *Engine, g Compound) bool { return e.biAssert(g.Args[0], true) }))
	def(e, "asserta", 1, det(func(e *Engine, g Compound) bool { return e.biAssert(g.Args[0], false) }))
	def(e, "retract", 1, det(func(e *Engine, g Compound) bool { return e.biRetract(g.Args[0]) }))
	def(e, "retractall", 1, det(func(e *Engine, g Compound) bool { return e.biRetractAll(g.Args[0]) }))
	def(e, "abolish", 1, det(func(e *Engine, g Compound) bool { return e.biAbolish(g.Args[0]) }))
	def(e, "current_predicate", 1, biCurrentPredicate)
	def(e, "clause", 2, biClause)
}

func splitClauseTerm(t Term) (head, body Term) {
	t = dereference(t)
	if c, ok := t.(Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		return c.Args[0], c.Args[1]
	}
	return t, Atom("true")
}

func (e *Engine) biAssert(clauseTerm Term, atEnd bool) bool {
	clauseTerm = dereference(clauseTerm)
	if isVariable(clauseTerm) {
		throwBall(instantiationError(nil))
	}
	head, body := splitClauseTerm(clauseTerm)
	head = dereference(head)
	if isVariable(head) {
		throwBall(instantiationError(nil))
	}
	if !IsCallable(head) {
		throwBall(typeError("callable", head, nil))
	}
	seen := make(map[*Variable]*Variable)
	fresh := &Clause{
		Head: cloneForActivation(head, seen),
		Body: cloneForActivation(body, seen),
	}
	ind := indicatorOf(fresh.Head)
	pred := e.db.getOrCreate(ind)
	if atEnd {
		pred.addLast(fresh)
	} else {
		pred.addFirst(fresh)
	}
	return true
}

func (e *Engine) biRetract(clauseTerm Term) bool {
	head, body := splitClauseTerm(clauseTerm)
	ind := indicatorOf(head)
	pred := e.db.get(ind)
	if pred == nil {
		return false
	}
	mark := e.trail.mark()
	removed := pred.removeFirst(func(c *Clause) bool {
		seen := make(map[*Variable]*Variable)
		candHead := cloneForActivation(c.Head, seen)
		candBody := cloneForActivation(c.Body, seen)
		if unifyWithUndo(e.trail, head, candHead) && unifyWithUndo(e.trail, body, candBody) {
			return true
		}
		e.trail.rewindTo(mark)
		return false
	})
	return removed
}

func (e *Engine) biRetractAll(headTerm Term) bool {
	head := dereference(headTerm)
	ind := indicatorOf(head)
	pred := e.db.getOrCreate(ind)
	pred.removeAll(func(c *Clause) bool {
		mark := e.trail.mark()
		seen := make(map[*Variable]*Variable)
		candHead := cloneForActivation(c.Head, seen)
		ok := unifyWithUndo(e.trail, head, candHead)
		e.trail.rewindTo(mark)
		return ok
	})
	return true
}

func (e *Engine) biAbolish(piTerm Term) bool {
	c, ok := dereference(piTerm).(Compound)
	if !ok || c.Functor != "/" || len(c.Args) != 2 {
		throwBall(typeError("predicate_indicator", piTerm, nil))
	}
	name, ok := dereference(c.Args[0]).(Atom)
	if !ok {
		throwBall(typeError("atom", c.Args[0], nil))
	}
	arity, ok := dereference(c.Args[1]).(Integer)
	if !ok {
		throwBall(typeError("integer", c.Args[1], nil))
	}
	e.db.abolish(FunctorTag{Name: name, Arity: int(arity)})
	return true
}

func biCurrentPredicate(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	indicators := e.db.indicators()
	mark := e.trail.mark()
	for i, ind := range indicators {
		last := i == len(indicators)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, goal.Args[0], ind.Term()) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !last {
			if !guard.alive() {
				return false
			}
			guard.release()
		}
	}
	return false
}

func biClause(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	head := dereference(goal.Args[0])
	if isVariable(head) {
		throwBall(instantiationError(nil))
	}
	ind := indicatorOf(head)
	pred := e.db.get(ind)
	if pred == nil {
		return false
	}
	clauses := pred.candidates(Compound{Functor: ind.Name, Args: headArgs(head)})
	mark := e.trail.mark()
	for i, cl := range clauses {
		last := i == len(clauses)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		seen := make(map[*Variable]*Variable)
		candHead := cloneForActivation(cl.Head, seen)
		candBody := cloneForActivation(cl.Body, seen)
		if unify(e.trail, head, candHead) && unify(e.trail, goal.Args[1], candBody) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !last {
			if !guard.alive() {
				return false
			}
			guard.release()
		}
	}
	return false
}

func headArgs(head Term) []Term {
	if c, ok := dereference(head).(Compound); ok {
		return c.Args
	}
	return nil
}
