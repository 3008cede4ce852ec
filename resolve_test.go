package wyrm

import "testing"

func TestSolveConjunction(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	goal := Atom(",").Of(Atom("=").Of(x, Integer(1)), Atom("=").Of(x, Integer(1)))
	ok := false
	e.solve(goal, e.cps.depth(), func() bool { ok = true; return true })
	if !ok {
		t.Fatal("conjunction of consistent unifications should succeed")
	}
}

func TestSolveConjunctionFailsOnInconsistentUnification(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	goal := Atom(",").Of(Atom("=").Of(x, Integer(1)), Atom("=").Of(x, Integer(2)))
	ok := false
	e.solve(goal, e.cps.depth(), func() bool { ok = true; return true })
	if ok {
		t.Error("conjunction binding X to two different values should fail")
	}
}

func TestSolveDisjunctionTriesBothBranches(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	goal := Atom(";").Of(Atom("=").Of(x, Integer(1)), Atom("=").Of(x, Integer(2)))
	var got []Term
	e.solve(goal, e.cps.depth(), func() bool {
		got = append(got, Deref(x))
		return false
	})
	if len(got) != 2 || got[0] != Integer(1) || got[1] != Integer(2) {
		t.Errorf("want [1 2], got %v", got)
	}
}

func TestSolveCutPrunesDisjunction(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	// (X = 1, ! ; X = 2) should only ever produce X = 1.
	goal := Atom(";").Of(
		Atom(",").Of(Atom("=").Of(x, Integer(1)), Atom("!")),
		Atom("=").Of(x, Integer(2)),
	)
	var got []Term
	barrier := e.cps.depth()
	e.solve(goal, barrier, func() bool {
		got = append(got, Deref(x))
		return false
	})
	if len(got) != 1 || got[0] != Integer(1) {
		t.Errorf("cut should prune the second disjunct, got %v", got)
	}
}

func TestSolveIfThenElse(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	goal := Atom(";").Of(
		Atom("->").Of(Atom("fail"), Atom("=").Of(x, Integer(1))),
		Atom("=").Of(x, Integer(2)),
	)
	ok := false
	e.solve(goal, e.cps.depth(), func() bool { ok = true; return true })
	if !ok || Deref(x) != Integer(2) {
		t.Errorf("if-then-else should take the else branch, X=%v ok=%v", Deref(x), ok)
	}
}

func TestSolveNegationSucceedsWhenGoalFails(t *testing.T) {
	e := newTestEngine(t)
	ok := false
	e.solve(Atom("\\+").Of(Atom("fail")), e.cps.depth(), func() bool { ok = true; return true })
	if !ok {
		t.Error("\\+(fail) should succeed")
	}
}

func TestSolveNegationFailsWhenGoalSucceeds(t *testing.T) {
	e := newTestEngine(t)
	ok := false
	e.solve(Atom("\\+").Of(Atom("true")), e.cps.depth(), func() bool { ok = true; return true })
	if ok {
		t.Error("\\+(true) should fail")
	}
}

func TestSolveNegationDiscardsBindings(t *testing.T) {
	e := newTestEngine(t)
	x := NewVariable("X")
	e.solve(Atom("\\+").Of(Atom("=").Of(x, Integer(1))), e.cps.depth(), func() bool { return true })
	if !isVariable(x) {
		t.Error("\\+ should undo any bindings its goal made")
	}
}

func TestSolveCallAppendsExtraArgs(t *testing.T) {
	e := newTestEngine(t)
	e.assertClause(NewClause(Atom("add").Of(NewVariable("A"), NewVariable("B"), NewVariable("C")),
		Atom("is").Of(NewVariable("C"), Atom("+").Of(NewVariable("A"), NewVariable("B")))), true)

	result := NewVariable("R")
	goal := Atom("call").Of(Atom("add"), Integer(2), Integer(3), result)
	ok := false
	e.solve(goal, e.cps.depth(), func() bool { ok = true; return true })
	if !ok || Deref(result) != Integer(5) {
		t.Errorf("call/3 extension should add extra args, result=%v ok=%v", Deref(result), ok)
	}
}

func TestSolveUserClauseBacktracking(t *testing.T) {
	e := newTestEngine(t)
	e.assertClause(NewClause(Atom("color").Of(Atom("red")), Atom("true")), true)
	e.assertClause(NewClause(Atom("color").Of(Atom("green")), Atom("true")), true)
	e.assertClause(NewClause(Atom("color").Of(Atom("blue")), Atom("true")), true)

	x := NewVariable("X")
	var got []Term
	e.solve(Atom("color").Of(x), e.cps.depth(), func() bool {
		got = append(got, Deref(x))
		return false
	})
	if len(got) != 3 {
		t.Fatalf("expected 3 solutions, got %v", got)
	}
}

func TestSolveUnknownProcedureThrowsByDefault(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		r := recover()
		pp, ok := r.(prologPanic)
		if !ok {
			t.Fatalf("expected a prologPanic, got %v", r)
		}
		c, ok := pp.ball.(Compound)
		if !ok || c.Functor != "error" {
			t.Errorf("expected error(...) ball, got %v", pp.ball)
		}
	}()
	e.solve(Atom("no_such_predicate").Of(Integer(1)), e.cps.depth(), func() bool { return true })
}

func TestSolveUnknownProcedureFailsWhenConfigured(t *testing.T) {
	e, err := New(WithUnknownAction("fail"))
	if err != nil {
		t.Fatal(err)
	}
	ok := false
	e.solve(Atom("no_such_predicate"), e.cps.depth(), func() bool { ok = true; return true })
	if ok {
		t.Error("unknown procedure with fail action should just fail, not succeed")
	}
}
