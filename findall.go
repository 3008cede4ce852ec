package wyrm

import "sort"

// registerFindallBuiltins installs findall/3, bagof/3, setof/3, and
// aggregate_all/3 (spec.md §4.12).
func registerFindallBuiltins(e *Engine) {
	def(e, "findall", 3, det(biFindall3))
	def(e, "bagof", 3, biBagof3)
	def(e, "setof", 3, biSetof3)
	def(e, "aggregate_all", 3, det(biAggregateAll3))
}

// collectAll runs goal to exhaustion under its own cut barrier,
// collecting CopyTerm(template) for every solution, then restores the
// trail to how it stood before the search began.
func (e *Engine) collectAll(template, goal Term) []Term {
	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	var results []Term
	e.solve(goal, localBarrier, func() bool {
		results = append(results, CopyTerm(template))
		return false
	})
	e.cps.truncateTo(localBarrier)
	e.trail.rewindTo(mark)
	return results
}

func biFindall3(e *Engine, g Compound) bool {
	results := e.collectAll(g.Args[0], g.Args[1])
	return unify(e.trail, g.Args[2], ListFromSlice(results))
}

// stripCarets peels Var^Goal wrappers used by bagof/setof to mark
// variables that should not be treated as free (existentially
// quantified), returning the innermost goal.
func stripCarets(goal Term) Term {
	for {
		c, ok := dereference(goal).(Compound)
		if !ok || c.Functor != "^" || len(c.Args) != 2 {
			return goal
		}
		goal = c.Args[1]
	}
}

// freeVariables returns the variables in t that do not appear in
// bound, in first-occurrence order, deduplicated.
func freeVariables(t Term, bound map[*Variable]bool) []*Variable {
	var out []*Variable
	seen := make(map[*Variable]bool)
	var walk func(Term)
	walk = func(t Term) {
		switch x := dereference(t).(type) {
		case *Variable:
			if !bound[x] && !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		case Compound:
			for _, a := range x.Args {
				walk(a)
			}
		}
	}
	walk(t)
	return out
}

func collectVariables(t Term, into map[*Variable]bool) {
	switch x := dereference(t).(type) {
	case *Variable:
		into[x] = true
	case Compound:
		for _, a := range x.Args {
			collectVariables(a, into)
		}
	}
}

// groupSolutions implements the shared witness/free-variable grouping
// machinery behind bagof/3 and setof/3: solutions are grouped by the
// bindings of the free variables not existentially quantified by ^/2
// or appearing in Template, and each group is reported as a separate
// solution of the whole call with Witness unified to the free
// variables' values for that group.
func (e *Engine) groupSolutions(template, goalWithCarets Term) (witnessVars []*Variable, groups [][2]Term) {
	bound := make(map[*Variable]bool)
	collectVariables(template, bound)
	g := goalWithCarets
	for {
		c, ok := dereference(g).(Compound)
		if !ok || c.Functor != "^" || len(c.Args) != 2 {
			break
		}
		collectVariables(c.Args[0], bound)
		g = c.Args[1]
	}
	free := freeVariables(g, bound)
	witnessTerm := ListFromSlice(varsToTerms(free))

	mark := e.trail.mark()
	localBarrier := e.cps.depth()
	type pair struct {
		witness Term
		value   Term
	}
	var pairs []pair
	e.solve(g, localBarrier, func() bool {
		pairs = append(pairs, pair{witness: CopyTerm(witnessTerm), value: CopyTerm(template)})
		return false
	})
	e.cps.truncateTo(localBarrier)
	e.trail.rewindTo(mark)

	// Stable-group consecutive-after-sort pairs sharing a
	// standard-order-equal witness.
	sort.SliceStable(pairs, func(i, j int) bool { return compareTerms(pairs[i].witness, pairs[j].witness) < 0 })
	var out [][2]Term
	for i := 0; i < len(pairs); {
		j := i + 1
		var values []Term
		values = append(values, pairs[i].value)
		for j < len(pairs) && compareTerms(pairs[j].witness, pairs[i].witness) == 0 {
			values = append(values, pairs[j].value)
			j++
		}
		out = append(out, [2]Term{pairs[i].witness, ListFromSlice(values)})
		i = j
	}
	return free, out
}

func varsToTerms(vars []*Variable) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

func biBagof3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	free, groups := e.groupSolutions(goal.Args[0], goal.Args[1])
	if len(groups) == 0 {
		return false
	}
	witnessTerm := ListFromSlice(varsToTerms(free))
	mark := e.trail.mark()
	for i, grp := range groups {
		last := i == len(groups)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, witnessTerm, grp[0]) && unify(e.trail, goal.Args[2], grp[1]) {
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

func biSetof3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	free, groups := e.groupSolutions(goal.Args[0], goal.Args[1])
	if len(groups) == 0 {
		return false
	}
	witnessTerm := ListFromSlice(varsToTerms(free))
	mark := e.trail.mark()
	for i, grp := range groups {
		items, _ := ListToSlice(grp[1])
		sorted := append([]Term{}, items...)
		sort.SliceStable(sorted, func(a, b int) bool { return compareTerms(sorted[a], sorted[b]) < 0 })
		deduped := sorted[:0]
		for j, t := range sorted {
			if j == 0 || compareTerms(sorted[j-1], t) != 0 {
				deduped = append(deduped, t)
			}
		}

		last := i == len(groups)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, witnessTerm, grp[0]) && unify(e.trail, goal.Args[2], ListFromSlice(deduped)) {
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

func biAggregateAll3(e *Engine, g Compound) bool {
	spec := dereference(g.Args[0])
	goal := g.Args[1]

	if c, ok := spec.(Compound); ok && len(c.Args) == 1 {
		values := e.collectAll(c.Args[0], goal)
		switch c.Functor {
		case "count":
			return unify(e.trail, g.Args[2], Integer(len(values)))
		case "bag":
			return unify(e.trail, g.Args[2], ListFromSlice(values))
		case "set":
			sorted := append([]Term{}, values...)
			sort.SliceStable(sorted, func(i, j int) bool { return compareTerms(sorted[i], sorted[j]) < 0 })
			deduped := sorted[:0]
			for i, t := range sorted {
				if i == 0 || compareTerms(sorted[i-1], t) != 0 {
					deduped = append(deduped, t)
				}
			}
			return unify(e.trail, g.Args[2], ListFromSlice(deduped))
		case "sum":
			var sum Term = Integer(0)
			for _, v := range values {
				sum = e.evaluate(Atom("+").Of(sum, v))
			}
			return unify(e.trail, g.Args[2], sum)
		case "max":
			if len(values) == 0 {
				return false
			}
			best := e.evaluate(values[0])
			for _, v := range values[1:] {
				nv := e.evaluate(v)
				if numericCompare(nv, best) > 0 {
					best = nv
				}
			}
			return unify(e.trail, g.Args[2], best)
		case "min":
			if len(values) == 0 {
				return false
			}
			best := e.evaluate(values[0])
			for _, v := range values[1:] {
				nv := e.evaluate(v)
				if numericCompare(nv, best) < 0 {
					best = nv
				}
			}
			return unify(e.trail, g.Args[2], best)
		}
	}
	if spec == Atom("count") {
		values := e.collectAll(Atom("x"), goal)
		return unify(e.trail, g.Args[2], Integer(len(values)))
	}
	throwBall(domainError("aggregate_spec", spec, nil))
	return false
}
