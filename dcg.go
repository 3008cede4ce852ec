package wyrm

// registerDCGBuiltins installs phrase/2 and phrase/3.
func registerDCGBuiltins(e *Engine) {
	def(e, "phrase", 2, func(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
		return e.solve(extendGoal(goal.Args[0], []Term{goal.Args[1], EmptyList}), e.cps.depth(), k)
	})
	def(e, "phrase", 3, func(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
		return e.solve(extendGoal(goal.Args[0], []Term{goal.Args[1], goal.Args[2]}), e.cps.depth(), k)
	})
}

// TranslateDCG rewrites a Head --> Body grammar rule term into an
// ordinary clause threading a pair of difference-list variables
// through Body, per the classic DCG transform (spec.md §6). It is a
// pure term-to-term rewrite: no parsing is involved, matching the
// "core consumes parsed terms" boundary in spec.md §1.
func TranslateDCG(rule Term) (*Clause, bool) {
	c, ok := dereference(rule).(Compound)
	if !ok || c.Functor != "-->" || len(c.Args) != 2 {
		return nil, false
	}
	s0 := NewVariable("S0")
	s := NewVariable("S")

	head := c.Args[0]

	var pushback Term
	if hc, ok := dereference(head).(Compound); ok && hc.Functor == "," && len(hc.Args) == 2 {
		// Head, Pushback --> Body: Pushback is appended literally onto
		// the output difference list.
		head = hc.Args[0]
		pushback = hc.Args[1]
	}

	newHead := extendGoal(head, []Term{s0, s})

	if pushback != nil {
		mid := NewVariable("S1")
		body := dcgTranslateBody(c.Args[1], s0, mid)
		pbItems, _ := ListToSlice(pushback)
		appended := dcgAppendTerminals(pbItems, s, mid)
		return &Clause{Head: newHead, Body: Atom(",").Of(body, appended)}, true
	}

	body := dcgTranslateBody(c.Args[1], s0, s)
	return &Clause{Head: newHead, Body: body}, true
}

// dcgTranslateBody implements translate_body(Body, S0, S, Goal).
func dcgTranslateBody(body Term, s0, s Term) Term {
	body = dereference(body)

	if items, ok := ListToSlice(body); ok {
		return dcgAppendTerminals(items, s0, s)
	}

	c, ok := body.(Compound)
	if !ok {
		if a, ok := body.(Atom); ok {
			if a == "!" {
				return Atom(",").Of(Atom("!"), Atom("=").Of(s0, s))
			}
			if a == EmptyList {
				return Atom("=").Of(s0, s)
			}
		}
		return extendGoal(body, []Term{s0, s})
	}

	switch {
	case c.Functor == "," && len(c.Args) == 2:
		mid := NewVariable("")
		left := dcgTranslateBody(c.Args[0], s0, mid)
		right := dcgTranslateBody(c.Args[1], mid, s)
		return Atom(",").Of(left, right)
	case c.Functor == ";" && len(c.Args) == 2:
		left := dcgTranslateBody(c.Args[0], s0, s)
		right := dcgTranslateBody(c.Args[1], s0, s)
		return Atom(";").Of(left, right)
	case c.Functor == "->" && len(c.Args) == 2:
		mid := NewVariable("")
		left := dcgTranslateBody(c.Args[0], s0, mid)
		right := dcgTranslateBody(c.Args[1], mid, s)
		return Atom("->").Of(left, right)
	case c.Functor == "{}" && len(c.Args) == 1:
		return Atom(",").Of(c.Args[0], Atom("=").Of(s0, s))
	case (c.Functor == "\\+" || c.Functor == "not") && len(c.Args) == 1:
		inner := dcgTranslateBody(c.Args[0], s0, NewVariable(""))
		return Atom(",").Of(Atom("\\+").Of(inner), Atom("=").Of(s0, s))
	case c.Functor == "call":
		return extendGoal(body, []Term{s0, s})
	case c.Functor == "." && len(c.Args) == 2:
		items, _ := ListToSlice(body)
		return dcgAppendTerminals(items, s0, s)
	default:
		return extendGoal(body, []Term{s0, s})
	}
}

// ConsultDCG translates each Head --> Body rule term and asserts the
// resulting clause, the way a loader would interleave DCG rules with
// plain clauses before handing everything to Consult.
func (e *Engine) ConsultDCG(rules []Term) error {
	for _, rule := range rules {
		cl, ok := TranslateDCG(rule)
		if !ok {
			throwBall(typeError("dcg_rule", rule, nil))
		}
		e.assertClause(cl, true)
	}
	return nil
}

// dcgAppendTerminals builds S0 = [t1, t2, ... | S].
func dcgAppendTerminals(items []Term, s0, s Term) Term {
	var list Term = s
	for i := len(items) - 1; i >= 0; i-- {
		list = Cons(items[i], list)
	}
	return Atom("=").Of(s0, list)
}
