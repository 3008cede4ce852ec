package wyrm

import "testing"

func evalInt(t *testing.T, e *Engine, expr Term) int64 {
	t.Helper()
	v, ok := e.evaluate(expr).(Integer)
	if !ok {
		t.Fatalf("expected an integer result for %v", expr)
	}
	return int64(v)
}

func evalFloat(t *testing.T, e *Engine, expr Term) float64 {
	t.Helper()
	v, ok := e.evaluate(expr).(Float)
	if !ok {
		t.Fatalf("expected a float result for %v", expr)
	}
	return v.Value
}

func TestEvaluateIntegerArithmetic(t *testing.T) {
	e := newTestEngine(t)
	expr := Atom("+").Of(Integer(2), Atom("*").Of(Integer(3), Integer(4)))
	if got := evalInt(t, e, expr); got != 14 {
		t.Errorf("2 + 3 * 4: want 14, got %d", got)
	}
}

func TestEvaluateDivisionPromotesToFloatOnRemainder(t *testing.T) {
	e := newTestEngine(t)
	if got := evalFloat(t, e, Atom("/").Of(Integer(1), Integer(2))); got != 0.5 {
		t.Errorf("1/2: want 0.5, got %v", got)
	}
}

func TestEvaluateIntegerDivisionExact(t *testing.T) {
	e := newTestEngine(t)
	if got := evalInt(t, e, Atom("/").Of(Integer(4), Integer(2))); got != 2 {
		t.Errorf("4/2: want 2, got %d", got)
	}
}

func TestEvaluateModFollowsDivisorSign(t *testing.T) {
	e := newTestEngine(t)
	if got := evalInt(t, e, Atom("mod").Of(Integer(-7), Integer(3))); got != 2 {
		t.Errorf("-7 mod 3: want 2, got %d", got)
	}
}

func TestEvaluateRemFollowsDividendSign(t *testing.T) {
	e := newTestEngine(t)
	if got := evalInt(t, e, Atom("rem").Of(Integer(-7), Integer(3))); got != -1 {
		t.Errorf("-7 rem 3: want -1, got %d", got)
	}
}

func TestEvaluateDivisionByZeroThrows(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		if recover() == nil {
			t.Fatal("division by zero should panic with a prologPanic")
		}
	}()
	e.evaluate(Atom("/").Of(Integer(1), Integer(0)))
}

func TestEvaluateUndefinedFunctionThrowsTypeError(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		r := recover()
		pp, ok := r.(prologPanic)
		if !ok {
			t.Fatalf("expected prologPanic, got %v", r)
		}
		c, ok := pp.ball.(Compound)
		if !ok || c.Functor != "error" {
			t.Errorf("expected error(...) ball, got %v", pp.ball)
		}
	}()
	e.evaluate(Atom("p").Of(Integer(1)))
}

func TestEvaluateGCDAndAbs(t *testing.T) {
	e := newTestEngine(t)
	if got := evalInt(t, e, Atom("gcd").Of(Integer(12), Integer(18))); got != 6 {
		t.Errorf("gcd(12,18): want 6, got %d", got)
	}
	if got := evalInt(t, e, Atom("abs").Of(Integer(-5))); got != 5 {
		t.Errorf("abs(-5): want 5, got %d", got)
	}
}

func TestEvaluateRandomProducesBoundedInteger(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 50; i++ {
		got := evalInt(t, e, Atom("random").Of(Integer(10)))
		if got < 0 || got >= 10 {
			t.Fatalf("random(10): want a value in [0,10), got %d", got)
		}
	}
}

func TestEvaluateRandomOfZeroThrows(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		if recover() == nil {
			t.Fatal("random(0) should throw an evaluation_error")
		}
	}()
	e.evaluate(Atom("random").Of(Integer(0)))
}

func TestIsBuiltinBindsResult(t *testing.T) {
	e := newTestEngine(t)
	sol, err := e.QueryOnce(Atom("is").Of(NewVariable("X"), Atom("+").Of(Integer(1), Integer(2))))
	if err != nil {
		t.Fatal(err)
	}
	if sol["X"] != Integer(3) {
		t.Errorf("want X=3, got %v", sol["X"])
	}
}

func TestArithComparisonBuiltins(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.QueryOnce(Atom("<").Of(Integer(1), Integer(2))); err != nil {
		t.Errorf("1 < 2 should succeed: %v", err)
	}
	if _, err := e.QueryOnce(Atom(">").Of(Integer(1), Integer(2))); err == nil {
		t.Error("1 > 2 should fail")
	}
	if _, err := e.QueryOnce(Atom("=:=").Of(Integer(2), Atom("+").Of(Integer(1), Integer(1)))); err != nil {
		t.Errorf("2 =:= 1+1 should succeed: %v", err)
	}
}

func TestNumericComparePromotesAcrossKinds(t *testing.T) {
	if numericCompare(Integer(1), NewFloat(1.0)) != 0 {
		t.Error("integer 1 and float 1.0 should compare numerically equal")
	}
}
