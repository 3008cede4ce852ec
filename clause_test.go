package wyrm

import "testing"

func TestNewFactHasTrueBody(t *testing.T) {
	c := NewFact(Atom("foo"))
	if c.Body != Atom("true") {
		t.Errorf("fact body should default to true, got %v", c.Body)
	}
}

func TestIndicatorOfAtomAndCompound(t *testing.T) {
	if got, want := indicatorOf(Atom("foo")), (FunctorTag{Name: "foo", Arity: 0}); got != want {
		t.Errorf("indicatorOf(atom): want %v, got %v", want, got)
	}
	if got, want := indicatorOf(Atom("foo").Of(Integer(1))), (FunctorTag{Name: "foo", Arity: 1}); got != want {
		t.Errorf("indicatorOf(compound): want %v, got %v", want, got)
	}
}

func TestFirstArgKeyOfVariableIsWildcard(t *testing.T) {
	goal := Atom("p").Of(NewVariable("X"))
	if got := firstArgKeyOf(goal); got != wildcardKey {
		t.Errorf("unbound first argument should produce the wildcard key, got %+v", got)
	}
}

func TestFirstArgKeyOfAtomAndInteger(t *testing.T) {
	a := firstArgKeyOf(Atom("p").Of(Atom("red")))
	b := firstArgKeyOf(Atom("p").Of(Atom("red")))
	if a != b {
		t.Errorf("same atom argument should produce equal keys: %+v vs %+v", a, b)
	}
	diff := firstArgKeyOf(Atom("p").Of(Atom("blue")))
	if a == diff {
		t.Error("different atom arguments should produce different keys")
	}

	i1 := firstArgKeyOf(Atom("p").Of(Integer(1)))
	i2 := firstArgKeyOf(Atom("p").Of(Integer(2)))
	if i1 == i2 {
		t.Error("different integer arguments should produce different keys")
	}
}

func TestFirstArgKeyCompatibleWithWildcard(t *testing.T) {
	k := firstArgKeyOf(Atom("p").Of(Atom("red")))
	if !k.compatible(wildcardKey) {
		t.Error("any key should be compatible with the wildcard")
	}
	if !wildcardKey.compatible(k) {
		t.Error("wildcard should be compatible with any key")
	}
}

func TestFirstArgKeyIncompatibleAcrossKinds(t *testing.T) {
	atomKey := firstArgKeyOf(Atom("p").Of(Atom("red")))
	intKey := firstArgKeyOf(Atom("p").Of(Integer(1)))
	if atomKey.compatible(intKey) {
		t.Error("an atom key should not be compatible with an integer key")
	}
}
