package wyrm

// solveCatch implements catch/3. Goal runs under its own cut barrier
// (cut inside Goal does not escape to the clause containing the
// catch/3 call, matching call/1); an escaping throw/1 is recovered
// here, the trail and choice-point stack are rewound to how they stood
// when catch/3 was entered, and Catcher is unified against the ball
// before Recovery runs.
func (e *Engine) solveCatch(goal, catcher, recovery Term, barrier CPMark, k Cont) (result bool) {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pp, ok := r.(prologPanic)
		if !ok {
			panic(r)
		}
		e.trail.rewindTo(mark)
		e.cps.truncateTo(localBarrier)
		ball := CopyTerm(pp.ball)
		if !unifyWithUndo(e.trail, catcher, ball) {
			panic(pp)
		}
		result = e.solve(recovery, barrier, k)
	}()

	return e.solve(goal, localBarrier, k)
}

// solveOnce implements once/1: Goal is committed to its first solution,
// as if by call((Goal, !)).
func (e *Engine) solveOnce(goal Term, k Cont) bool {
	localBarrier := e.cps.depth()
	succeeded := false
	e.solve(goal, localBarrier, func() bool {
		succeeded = true
		e.cps.truncateTo(localBarrier)
		return true
	})
	if !succeeded {
		return false
	}
	return k()
}

// solveIgnore implements ignore/1: Goal is run at most once; if it
// fails, ignore/1 still succeeds, with no bindings retained from the
// failed attempt.
func (e *Engine) solveIgnore(goal Term, k Cont) bool {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	succeeded := false
	e.solve(goal, localBarrier, func() bool {
		succeeded = true
		e.cps.truncateTo(localBarrier)
		return true
	})
	if !succeeded {
		e.trail.rewindTo(mark)
	}
	return k()
}

// solveForall implements forall/2 as \+ (Cond, \+ Action): it succeeds
// when every solution of Cond makes Action succeed at least once.
func (e *Engine) solveForall(cond, action Term, k Cont) bool {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	counterexample := false

	e.solve(cond, localBarrier, func() bool {
		actionBarrier := e.cps.depth()
		actionSucceeded := false
		e.solve(action, actionBarrier, func() bool {
			actionSucceeded = true
			e.cps.truncateTo(actionBarrier)
			return true
		})
		e.cps.truncateTo(actionBarrier)
		if !actionSucceeded {
			counterexample = true
			return true
		}
		return false
	})

	e.cps.truncateTo(localBarrier)
	e.trail.rewindTo(mark)
	if counterexample {
		return false
	}
	return k()
}

// solveSetupCallCatcherCleanup implements setup_call_catcher_cleanup/4
// (spec.md §4.8). Setup runs once, deterministically, before Goal. A
// choice point carrying Cleanup as its cleanup hook is pushed before
// Goal runs, so that Cleanup fires exactly once however the engine
// stops exploring Goal's alternatives: Goal becomes deterministic,
// Goal is exhausted, an exception unwinds past it, or an outer cut
// truncates it away. Catcher is unified with one of exit, fail,
// exception(E), or ! at whichever of those four points actually
// happens, matching spec.md §4.8's state machine.
func (e *Engine) solveSetupCallCatcherCleanup(setup, goal, catcher, cleanupGoal Term, barrier CPMark, k Cont) bool {
	setupBarrier := e.cps.depth()
	setupOK := false
	e.solve(setup, setupBarrier, func() bool {
		setupOK = true
		e.cps.truncateTo(setupBarrier)
		return true
	})
	if !setupOK {
		return false
	}

	catcherBound := false
	bindCatcher := func(val Term) {
		if catcherBound {
			return
		}
		catcherBound = true
		unify(e.trail, catcher, val)
	}

	fired := false
	runCleanup := func() {
		if fired {
			return
		}
		fired = true
		cbarrier := e.cps.depth()
		e.solve(cleanupGoal, cbarrier, func() bool {
			e.cps.truncateTo(cbarrier)
			return true
		})
	}

	depthBeforeGoal := e.cps.depth()
	tok := e.cps.push(choicePoint{trailMark: e.trail.mark(), cleanup: func() {
		// Reached only when something outside this call (an outer
		// cut, or an enclosing truncateTo) prunes the CP away while it
		// is still undecided.
		bindCatcher(Atom("!"))
		runCleanup()
	}, kind: "cleanup"})

	result := func() (res bool) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			pp, ok := r.(prologPanic)
			if !ok {
				panic(r)
			}
			ball := CopyTerm(pp.ball)
			bindCatcher(Atom("exception").Of(ball))
			if e.cps.alive(tok) {
				e.cps.popToken(tok)
			}
			panic(pp)
		}()
		return e.solve(goal, barrier, func() bool {
			if e.cps.depth() == depthBeforeGoal+1 {
				bindCatcher(Atom("exit"))
				e.cps.popToken(tok)
			}
			return k()
		})
	}()

	if e.cps.alive(tok) && !result {
		bindCatcher(Atom("fail"))
		e.cps.popToken(tok)
	}
	return result
}
