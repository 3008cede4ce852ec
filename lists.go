package wyrm

// registerListBuiltins installs the list library of spec.md §4.13.
// length/2, append/3, member/2, nth0/3, nth1/3, select/3 and between/3
// can be nondeterministic and use the choice-point guard discipline
// directly; the rest have at most one solution given the modes wyrm
// supports.
func registerListBuiltins(e *Engine) {
	def(e, "length", 2, biLength2)
	def(e, "append", 3, biAppend3)
	def(e, "member", 2, biMember2)
	def(e, "memberchk", 2, det(biMemberchk2))
	def(e, "reverse", 2, det(biReverse2))
	def(e, "nth0", 3, biNth(0))
	def(e, "nth1", 3, biNth(1))
	def(e, "last", 2, det(biLast2))
	def(e, "sum_list", 2, det(biSumList2))
	def(e, "sumlist", 2, det(biSumList2))
	def(e, "max_list", 2, det(biMaxList2))
	def(e, "min_list", 2, det(biMinList2))
	def(e, "list_to_set", 2, det(biListToSet2))
	def(e, "exclude", 3, biExclude3)
	def(e, "include", 3, biInclude3)
	def(e, "select", 3, biSelect3)
	def(e, "between", 3, biBetween3)
	def(e, "numlist", 3, det(biNumlist3))
}

func biLength2(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	list, lenTerm := goal.Args[0], goal.Args[1]
	mark := e.trail.mark()

	if items, ok := ListToSlice(list); ok {
		if unify(e.trail, lenTerm, Integer(len(items))) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}

	if n, ok := dereference(lenTerm).(Integer); ok {
		if n < 0 {
			return false
		}
		items := make([]Term, n)
		for i := range items {
			items[i] = NewVariable("")
		}
		if unify(e.trail, list, ListFromSlice(items)) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}

	// Both unbound: enumerate lengths 0..cap, per spec.md §9 Open
	// Question, bounded by Engine.lengthCap rather than forever.
	for n := 0; n <= e.lengthCap; n++ {
		last := n == e.lengthCap
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		items := make([]Term, n)
		for i := range items {
			items[i] = NewVariable("")
		}
		if unify(e.trail, list, ListFromSlice(items)) && unify(e.trail, lenTerm, Integer(n)) {
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

func biAppend3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	a, b, c := goal.Args[0], goal.Args[1], goal.Args[2]
	mark := e.trail.mark()

	if front, ok := ListToSlice(a); ok {
		result := b
		for i := len(front) - 1; i >= 0; i-- {
			result = Cons(front[i], result)
		}
		if unify(e.trail, c, result) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}

	// A unbound: enumerate every split of C (if proper) into front ++ rest.
	items, ok := ListToSlice(c)
	if !ok {
		throwBall(instantiationError(nil))
	}
	for i := 0; i <= len(items); i++ {
		last := i == len(items)
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, a, ListFromSlice(items[:i])) && unify(e.trail, b, ListFromSlice(items[i:])) {
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

func biMember2(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	x, list := goal.Args[0], goal.Args[1]
	cur := list
	for {
		c, ok := dereference(cur).(Compound)
		if !ok || c.Functor != "." || len(c.Args) != 2 {
			return false
		}
		mark := e.trail.mark()
		guard := newGuard(e.cps, mark)
		if unify(e.trail, x, c.Args[0]) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !guard.alive() {
			return false
		}
		guard.release()
		cur = c.Args[1]
	}
}

func biMemberchk2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[1])
	if !ok {
		return false
	}
	for _, item := range items {
		if unifyWithUndo(e.trail, g.Args[0], item) {
			return true
		}
	}
	return false
}

func biReverse2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	reversed := make([]Term, len(items))
	for i, t := range items {
		reversed[len(items)-1-i] = t
	}
	return unify(e.trail, g.Args[1], ListFromSlice(reversed))
}

func biNth(base int) Builtin {
	return func(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
		items, ok := ListToSlice(goal.Args[1])
		if !ok {
			throwBall(typeError("list", goal.Args[1], nil))
		}
		mark := e.trail.mark()

		if n, ok := dereference(goal.Args[0]).(Integer); ok {
			idx := int(n) - base
			if idx < 0 || idx >= len(items) {
				return false
			}
			if unify(e.trail, goal.Args[2], items[idx]) {
				if k() {
					return true
				}
			}
			e.trail.rewindTo(mark)
			return false
		}

		for i, item := range items {
			last := i == len(items)-1
			var guard choiceGuard
			if !last {
				guard = newGuard(e.cps, mark)
			}
			if unify(e.trail, goal.Args[0], Integer(i+base)) && unify(e.trail, goal.Args[2], item) {
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
}

func biLast2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok || len(items) == 0 {
		return false
	}
	return unify(e.trail, g.Args[1], items[len(items)-1])
}

func biSumList2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	var sum Term = Integer(0)
	for _, t := range items {
		sum = e.evaluate(Atom("+").Of(sum, t))
	}
	return unify(e.trail, g.Args[1], sum)
}

func biMaxList2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok || len(items) == 0 {
		return false
	}
	best := e.evaluate(items[0])
	for _, t := range items[1:] {
		v := e.evaluate(t)
		if numericCompare(v, best) > 0 {
			best = v
		}
	}
	return unify(e.trail, g.Args[1], best)
}

func biMinList2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok || len(items) == 0 {
		return false
	}
	best := e.evaluate(items[0])
	for _, t := range items[1:] {
		v := e.evaluate(t)
		if numericCompare(v, best) < 0 {
			best = v
		}
	}
	return unify(e.trail, g.Args[1], best)
}

func biListToSet2(e *Engine, g Compound) bool {
	items, ok := ListToSlice(g.Args[0])
	if !ok {
		throwBall(typeError("list", g.Args[0], nil))
	}
	var out []Term
	for _, t := range items {
		dup := false
		for _, seen := range out {
			if termsEqual(t, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return unify(e.trail, g.Args[1], ListFromSlice(out))
}

func biInclude3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	return filterList(e, goal, k, true)
}

func biExclude3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	return filterList(e, goal, k, false)
}

func filterList(e *Engine, goal Compound, k Cont, keepOnSuccess bool) bool {
	pred, list := goal.Args[0], goal.Args[1]
	items, ok := ListToSlice(list)
	if !ok {
		throwBall(typeError("list", list, nil))
	}
	var out []Term
	for _, item := range items {
		localBarrier := e.cps.depth()
		ok := false
		e.solve(extendGoal(pred, []Term{item}), localBarrier, func() bool {
			ok = true
			e.cps.truncateTo(localBarrier)
			return true
		})
		e.cps.truncateTo(localBarrier)
		if ok == keepOnSuccess {
			out = append(out, item)
		}
	}
	mark := e.trail.mark()
	if unify(e.trail, goal.Args[2], ListFromSlice(out)) {
		if k() {
			return true
		}
	}
	e.trail.rewindTo(mark)
	return false
}

// biBetween3 implements between/3: Low and High are integers (High may
// be the atom inf/infinite for an unbounded count up), X either checks
// a bound value against the range or is enumerated across it.
func biBetween3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	lo := asInt(e, e.evaluate(goal.Args[0]), nil)
	var hi int64
	unbounded := false
	switch h := dereference(goal.Args[1]).(type) {
	case Atom:
		if h != "inf" && h != "infinite" {
			throwBall(typeError("integer", h, nil))
		}
		unbounded = true
	default:
		hi = asInt(e, e.evaluate(goal.Args[1]), nil)
	}

	mark := e.trail.mark()
	if n, ok := dereference(goal.Args[2]).(Integer); ok {
		if int64(n) < lo || (!unbounded && int64(n) > hi) {
			return false
		}
		if k() {
			return true
		}
		return false
	}

	for x := lo; unbounded || x <= hi; x++ {
		last := !unbounded && x == hi
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, goal.Args[2], Integer(x)) {
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

func biNumlist3(e *Engine, g Compound) bool {
	lo := asInt(e, e.evaluate(g.Args[0]), nil)
	hi := asInt(e, e.evaluate(g.Args[1]), nil)
	var items []Term
	for x := lo; x <= hi; x++ {
		items = append(items, Integer(x))
	}
	return unify(e.trail, g.Args[2], ListFromSlice(items))
}

func biSelect3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	x, list, rest := goal.Args[0], goal.Args[1], goal.Args[2]
	items, ok := ListToSlice(list)
	if !ok {
		throwBall(typeError("list", list, nil))
	}
	mark := e.trail.mark()
	for i := range items {
		last := i == len(items)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		remaining := make([]Term, 0, len(items)-1)
		remaining = append(remaining, items[:i]...)
		remaining = append(remaining, items[i+1:]...)
		if unify(e.trail, x, items[i]) && unify(e.trail, rest, ListFromSlice(remaining)) {
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
