package wyrm

import "testing"

func TestFlagSetDefaultsPopulated(t *testing.T) {
	fs := newFlagSet()
	v, ok := fs.get("bounded")
	if !ok || v != Atom("true") {
		t.Errorf("want bounded=true by default, got %v", v)
	}
	if _, ok := fs.get("nonexistent"); ok {
		t.Error("an unknown flag name should not resolve")
	}
}

func TestFlagSetUnknownDefaultsToError(t *testing.T) {
	fs := newFlagSet()
	v, ok := fs.get("unknown")
	if !ok || v != Atom("error") {
		t.Errorf("want unknown=error by default, got %v", v)
	}
	if fs.unknown() != unknownError {
		t.Errorf("want unknownError, got %v", fs.unknown())
	}
}

func TestFlagSetSetUnknownViaSet(t *testing.T) {
	fs := newFlagSet()
	fs.set("unknown", Atom("fail"))
	if fs.unknown() != unknownFail {
		t.Error("setting the unknown flag to fail should update unknownDefault")
	}
	v, _ := fs.get("unknown")
	if v != Atom("fail") {
		t.Errorf("want unknown=fail reflected back, got %v", v)
	}
}

func TestFlagSetSetUnknownDirectly(t *testing.T) {
	fs := newFlagSet()
	fs.setUnknown(unknownWarning)
	if fs.unknown() != unknownWarning {
		t.Error("setUnknown should change the accessor's view")
	}
}

func TestFlagSetSetArbitraryFlag(t *testing.T) {
	fs := newFlagSet()
	fs.set("double_quotes", Atom("atom"))
	v, _ := fs.get("double_quotes")
	if v != Atom("atom") {
		t.Errorf("want double_quotes=atom, got %v", v)
	}
}

func TestFlagSetNamesIncludesUnknown(t *testing.T) {
	fs := newFlagSet()
	names := fs.names()
	found := false
	for _, n := range names {
		if n == "unknown" {
			found = true
		}
	}
	if !found {
		t.Error("names() should include \"unknown\" even though it lives outside values")
	}
	if len(names) != len(fs.values)+1 {
		t.Errorf("want len(values)+1 names, got %d", len(names))
	}
}

func TestFlagSetCloneIsIndependent(t *testing.T) {
	fs := newFlagSet()
	clone := fs.clone()
	clone.set("double_quotes", Atom("chars"))

	orig, _ := fs.get("double_quotes")
	cloned, _ := clone.get("double_quotes")
	if orig == cloned {
		t.Error("mutating a clone should not affect the original flag set")
	}
}
