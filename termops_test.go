package wyrm

import "testing"

func TestIsGround(t *testing.T) {
	if isGround(NewVariable("X")) {
		t.Error("unbound variable should not be ground")
	}
	if !isGround(Atom("f").Of(Integer(1), Integer(2))) {
		t.Error("fully instantiated compound should be ground")
	}
	if isGround(Atom("f").Of(NewVariable("X"))) {
		t.Error("compound with an unbound argument should not be ground")
	}
}

func TestFunctorDecompose(t *testing.T) {
	e := newTestEngine(t)
	name, arity := NewVariable("N"), NewVariable("A")
	if !biFunctor3(e, Atom("functor").Of(Atom("f").Of(Integer(1), Integer(2)), name, arity)) {
		t.Fatal("functor/3 decompose should succeed")
	}
	if Deref(name) != Atom("f") || Deref(arity) != Integer(2) {
		t.Errorf("want f/2, got %v/%v", Deref(name), Deref(arity))
	}
}

func TestFunctorConstruct(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("T")
	if !biFunctor3(e, Atom("functor").Of(out, Atom("f"), Integer(2))) {
		t.Fatal("functor/3 construct should succeed")
	}
	c, ok := Deref(out).(Compound)
	if !ok || c.Functor != "f" || c.Arity() != 2 {
		t.Errorf("want f(_,_), got %v", Deref(out))
	}
}

func TestFunctorConstructArityZeroGivesAtom(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("T")
	biFunctor3(e, Atom("functor").Of(out, Atom("foo"), Integer(0)))
	if Deref(out) != Atom("foo") {
		t.Errorf("functor with arity 0 should bind to the bare atom, got %v", Deref(out))
	}
}

func TestArgExtractsNthArgument(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("X")
	if !biArg3(e, Atom("arg").Of(Integer(2), Atom("f").Of(Atom("a"), Atom("b"), Atom("c")), out)) {
		t.Fatal("arg/3 should succeed for a valid index")
	}
	if Deref(out) != Atom("b") {
		t.Errorf("want b, got %v", Deref(out))
	}
}

func TestArgOutOfRangeFails(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("X")
	if biArg3(e, Atom("arg").Of(Integer(5), Atom("f").Of(Atom("a")), out)) {
		t.Error("arg/3 should fail for an out-of-range index")
	}
}

func TestArgZeroFails(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("X")
	if biArg3(e, Atom("arg").Of(Integer(0), Atom("f").Of(Atom("a"), Atom("b"), Atom("c")), out)) {
		t.Error("arg(0, f(a,b,c), _) should fail, not error")
	}
}

func TestArgNegativeThrowsDomainError(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		r := recover()
		pp, ok := r.(prologPanic)
		if !ok {
			t.Fatalf("arg(-1, f(a), _) should throw a domain_error, got %v", r)
		}
		c, ok := pp.ball.(Compound)
		if !ok || c.Functor != "error" {
			t.Fatalf("expected error(...) ball, got %v", pp.ball)
		}
		formal, ok := dereference(c.Args[0]).(Compound)
		if !ok || formal.Functor != "domain_error" || formal.Args[0] != Atom("not_less_than_zero") {
			t.Errorf("expected domain_error(not_less_than_zero, -1), got %v", formal)
		}
	}()
	biArg3(e, Atom("arg").Of(Integer(-1), Atom("f").Of(Atom("a")), NewVariable("X")))
}

func TestUnivDecomposeAndConstruct(t *testing.T) {
	e := newTestEngine(t)
	list := NewVariable("L")
	biUniv2(e, Atom("=..").Of(Atom("f").Of(Integer(1), Integer(2)), list))
	items, _ := ListToSlice(Deref(list))
	if len(items) != 3 || items[0] != Atom("f") {
		t.Errorf("want [f,1,2], got %v", items)
	}

	out := NewVariable("T")
	built := ListFromSlice([]Term{Atom("g"), Integer(9)})
	biUniv2(e, Atom("=..").Of(out, built))
	c, ok := Deref(out).(Compound)
	if !ok || c.Functor != "g" || c.Args[0] != Integer(9) {
		t.Errorf("want g(9), got %v", Deref(out))
	}
}

func TestSuccBothDirections(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("X")
	biSucc2(e, Atom("succ").Of(Integer(4), out))
	if Deref(out) != Integer(5) {
		t.Errorf("succ(4,X): want 5, got %v", Deref(out))
	}

	pred := NewVariable("P")
	biSucc2(e, Atom("succ").Of(pred, Integer(5)))
	if Deref(pred) != Integer(4) {
		t.Errorf("succ(P,5): want 4, got %v", Deref(pred))
	}
}

func TestSuccOfZeroFails(t *testing.T) {
	e := newTestEngine(t)
	pred := NewVariable("P")
	if biSucc2(e, Atom("succ").Of(pred, Integer(0))) {
		t.Error("succ(P,0) should fail: there is no non-negative predecessor of 0")
	}
}

func TestPlusSolvesForMissingArgument(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("Z")
	biPlus3(e, Atom("plus").Of(Integer(2), Integer(3), out))
	if Deref(out) != Integer(5) {
		t.Errorf("plus(2,3,Z): want 5, got %v", Deref(out))
	}

	missing := NewVariable("Y")
	biPlus3(e, Atom("plus").Of(Integer(2), missing, Integer(5)))
	if Deref(missing) != Integer(3) {
		t.Errorf("plus(2,Y,5): want 3, got %v", Deref(missing))
	}
}
