package wyrm

// Cont is a success continuation: it is called once per solution found
// so far, and returns true if the caller is satisfied (stop searching
// for more) or false to ask for the next alternative. This is the
// "resumable producer" from spec.md §4.4 turned inside out: instead of
// the caller pulling a resume() entry point, the producer pushes each
// solution through k and reads k's answer to decide whether to keep
// going.
type Cont func() bool

// solve executes goal under the control constructs, the builtin
// registry, and finally user-defined clauses, calling k once per
// solution. barrier is the choice-point depth that a cut occurring
// directly in goal (not inside a nested call/1, catch/3 goal, or
// negation) should truncate back to.
func (e *Engine) solve(goal Term, barrier CPMark, k Cont) bool {
	e.tickContext()

	goal = dereference(goal)
	var functor Atom
	var args []Term
	switch g := goal.(type) {
	case *Variable:
		throwBall(instantiationError(nil))
		return false
	case Atom:
		functor = g
	case Compound:
		functor, args = g.Functor, g.Args
	default:
		throwBall(typeError("callable", goal, nil))
		return false
	}

	switch {
	case functor == "true" && len(args) == 0:
		return k()
	case (functor == "fail" || functor == "false") && len(args) == 0:
		return false
	case functor == "!" && len(args) == 0:
		e.cps.truncateTo(barrier)
		return k()
	case functor == "," && len(args) == 2:
		a, b := args[0], args[1]
		return e.solve(a, barrier, func() bool { return e.solve(b, barrier, k) })
	case functor == ";" && len(args) == 2:
		return e.solveDisjunction(args[0], args[1], barrier, k)
	case functor == "->" && len(args) == 2:
		return e.solveIfThen(args[0], args[1], nil, barrier, k)
	case functor == "*->" && len(args) == 2:
		return e.solveSoftIfThen(args[0], args[1], nil, barrier, k)
	case (functor == "\\+" || functor == "not") && len(args) == 1:
		return e.solveNegation(args[0], k)
	case functor == "call" && len(args) >= 1:
		return e.solveCall(args, k)
	case functor == "catch" && len(args) == 3:
		return e.solveCatch(args[0], args[1], args[2], barrier, k)
	case functor == "throw" && len(args) == 1:
		return e.solveThrow(args[0])
	case functor == "once" && len(args) == 1:
		return e.solveOnce(args[0], k)
	case functor == "ignore" && len(args) == 1:
		return e.solveIgnore(args[0], k)
	case functor == "forall" && len(args) == 2:
		return e.solveForall(args[0], args[1], k)
	case functor == "call_cleanup" && len(args) == 2:
		return e.solveSetupCallCatcherCleanup(Atom("true"), args[0], NewVariable(""), args[1], barrier, k)
	case functor == "setup_call_catcher_cleanup" && len(args) == 4:
		return e.solveSetupCallCatcherCleanup(args[0], args[1], args[2], args[3], barrier, k)
	}

	ind := FunctorTag{Name: functor, Arity: len(args)}
	goalCompound := Compound{Functor: functor, Args: args}

	if bi, ok := e.builtins[ind]; ok {
		return bi(e, barrier, goalCompound, k)
	}
	return e.solveUser(ind, goalCompound, k)
}

// solveDisjunction handles ;/2, dispatching to the if-then-else and
// soft-cut forms when the left operand says so.
func (e *Engine) solveDisjunction(left, right Term, barrier CPMark, k Cont) bool {
	if c, ok := dereference(left).(Compound); ok && len(c.Args) == 2 {
		switch c.Functor {
		case "->":
			return e.solveIfThen(c.Args[0], c.Args[1], right, barrier, k)
		case "*->":
			return e.solveSoftIfThen(c.Args[0], c.Args[1], right, barrier, k)
		}
	}

	mark := e.trail.mark()
	guard := newGuard(e.cps, mark)
	if e.solve(left, barrier, k) {
		return true
	}
	e.trail.rewindTo(mark)
	if !guard.alive() {
		return false
	}
	guard.release()
	return e.solve(right, barrier, k)
}

// solveIfThen implements (Cond -> Then) and (Cond -> Then ; Else): Cond
// is run in its own cut-opaque region and committed to its first
// solution.
func (e *Engine) solveIfThen(cond, then, els Term, barrier CPMark, k Cont) bool {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	succeeded := false
	e.solve(cond, localBarrier, func() bool {
		succeeded = true
		e.cps.truncateTo(localBarrier)
		return true
	})
	if succeeded {
		return e.solve(then, barrier, k)
	}
	e.trail.rewindTo(mark)
	if els == nil {
		return false
	}
	return e.solve(els, barrier, k)
}

// solveSoftIfThen implements (Cond *-> Then ; Else): every solution of
// Cond drives Then, and Else only runs if Cond has none at all.
func (e *Engine) solveSoftIfThen(cond, then, els Term, barrier CPMark, k Cont) bool {
	mark := e.trail.mark()
	any := false
	localBarrier := e.cps.depth()
	if e.solve(cond, localBarrier, func() bool {
		any = true
		return e.solve(then, barrier, k)
	}) {
		return true
	}
	if any {
		return false
	}
	e.trail.rewindTo(mark)
	if els == nil {
		return false
	}
	return e.solve(els, barrier, k)
}

// solveNegation implements \+/1: Goal is run at most once, discarding
// any bindings and choice points it made either way.
func (e *Engine) solveNegation(goal Term, k Cont) bool {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	found := false
	e.solve(goal, localBarrier, func() bool {
		found = true
		return true
	})
	e.cps.truncateTo(localBarrier)
	e.trail.rewindTo(mark)
	if found {
		return false
	}
	return k()
}

// solveCall implements call/1..8: the extra arguments are appended to
// Goal's argument vector, and the result is called as if by call/1,
// i.e. under a fresh cut barrier.
func (e *Engine) solveCall(args []Term, k Cont) bool {
	goal := dereference(args[0])
	if isVariable(goal) {
		throwBall(instantiationError(nil))
	}
	extra := args[1:]
	if len(extra) > 0 {
		goal = extendGoal(goal, extra)
	}
	if !IsCallable(goal) {
		throwBall(typeError("callable", goal, nil))
	}
	return e.solve(goal, e.cps.depth(), k)
}

func extendGoal(goal Term, extra []Term) Term {
	switch g := dereference(goal).(type) {
	case Atom:
		return Compound{Functor: g, Args: append([]Term{}, extra...)}
	case Compound:
		merged := make([]Term, 0, len(g.Args)+len(extra))
		merged = append(merged, g.Args...)
		merged = append(merged, extra...)
		return Compound{Functor: g.Functor, Args: merged}
	default:
		return goal
	}
}

// solveThrow implements throw/1.
func (e *Engine) solveThrow(ballTerm Term) bool {
	ball := dereference(ballTerm)
	if isVariable(ball) {
		throwBall(instantiationError(nil))
	}
	throwBall(CopyTerm(ball))
	return false
}

// compoundToTerm collapses a zero-arity Compound built purely for
// dispatch purposes back into the bare Atom a clause head would store.
func compoundToTerm(c Compound) Term {
	if len(c.Args) == 0 {
		return c.Functor
	}
	return c
}

// solveUser resolves ind against the clause database, trying each
// candidate clause (after first-argument indexing, when enabled, narrows
// the list) in assert order.
func (e *Engine) solveUser(ind FunctorTag, goal Compound, k Cont) bool {
	pred := e.db.get(ind)
	if pred == nil {
		return e.handleUnknown(ind, goal, k)
	}

	var clauses []*Clause
	if e.indexing {
		clauses = pred.candidates(goal)
	} else {
		clauses = pred.snapshot()
	}
	barrier := e.cps.depth()
	mark := e.trail.mark()
	goalTerm := compoundToTerm(goal)

	for i, cl := range clauses {
		last := i == len(clauses)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}

		seen := make(map[*Variable]*Variable)
		freshHead := cloneForActivation(cl.Head, seen)
		if !unify(e.trail, goalTerm, freshHead) {
			e.trail.rewindTo(mark)
			if !last {
				guard.release()
			}
			continue
		}

		freshBody := cloneForActivation(cl.Body, seen)
		if e.solve(freshBody, barrier, k) {
			return true
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

// unknownAction controls how solveUser reacts to a call to an
// undeclared predicate (spec.md §4.6).
type unknownAction int

const (
	unknownError unknownAction = iota
	unknownFail
	unknownWarning
)

func (e *Engine) handleUnknown(ind FunctorTag, goal Compound, k Cont) bool {
	switch e.flags.unknown() {
	case unknownFail:
		return false
	case unknownWarning:
		e.logger.Warn("unknown procedure called", "predicate", ind.String())
		return false
	default:
		throwBall(existenceError(Atom("procedure"), ind.Term(), nil))
		return false
	}
}
