package wyrm

import "testing"

func TestAtomCharsBothDirections(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("Cs")
	if !biAtomChars2(e, Atom("atom_chars").Of(Atom("ab"), out)) {
		t.Fatal("atom_chars should decompose an atom into chars")
	}
	got, _ := ListToSlice(Deref(out))
	if len(got) != 2 || got[0] != Atom("a") || got[1] != Atom("b") {
		t.Errorf("want [a,b], got %v", got)
	}

	back := NewVariable("A")
	chars := ListFromSlice([]Term{Atom("x"), Atom("y")})
	if !biAtomChars2(e, Atom("atom_chars").Of(back, chars)) {
		t.Fatal("atom_chars should compose chars into an atom")
	}
	if Deref(back) != Atom("xy") {
		t.Errorf("want xy, got %v", Deref(back))
	}
}

func TestAtomCodesRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("Codes")
	biAtomCodes2(e, Atom("atom_codes").Of(Atom("a"), out))
	got, _ := ListToSlice(Deref(out))
	if len(got) != 1 || got[0] != Integer('a') {
		t.Errorf("want [97], got %v", got)
	}
}

func TestCharCodeBothDirections(t *testing.T) {
	e := newTestEngine(t)
	code := NewVariable("Code")
	if !biCharCode2(e, Atom("char_code").Of(Atom("a"), code)) || Deref(code) != Integer('a') {
		t.Errorf("char_code(a, Code): want 97, got %v", Deref(code))
	}

	ch := NewVariable("Char")
	if !biCharCode2(e, Atom("char_code").Of(ch, Integer('z'))) || Deref(ch) != Atom("z") {
		t.Errorf("char_code(Char, 122): want z, got %v", Deref(ch))
	}
}

func TestNumberCharsParsesAndRenders(t *testing.T) {
	e := newTestEngine(t)
	chars := ListFromSlice([]Term{Atom("1"), Atom("2")})
	n := NewVariable("N")
	if !biNumberChars2(e, Atom("number_chars").Of(n, chars)) || Deref(n) != Integer(12) {
		t.Errorf("number_chars(N, ['1','2']): want 12, got %v", Deref(n))
	}

	out := NewVariable("Cs")
	biNumberChars2(e, Atom("number_chars").Of(Integer(12), out))
	got, _ := ListToSlice(Deref(out))
	if len(got) != 2 || got[0] != Atom("1") {
		t.Errorf("number_chars(12, Cs): want ['1','2'], got %v", got)
	}
}

func TestAtomLength(t *testing.T) {
	e := newTestEngine(t)
	n := NewVariable("N")
	biAtomLength2(e, Atom("atom_length").Of(Atom("hello"), n))
	if Deref(n) != Integer(5) {
		t.Errorf("atom_length(hello, N): want 5, got %v", Deref(n))
	}
}

func TestAtomConcatDeterministic(t *testing.T) {
	e := newTestEngine(t)
	out := NewVariable("C")
	ok := false
	biAtomConcat3(e, e.cps.depth(), Atom("atom_concat").Of(Atom("foo"), Atom("bar"), out), func() bool {
		ok = true
		return true
	})
	if !ok || Deref(out) != Atom("foobar") {
		t.Errorf("atom_concat(foo,bar,C): want foobar, got %v", Deref(out))
	}
}

func TestAtomConcatEnumeratesSplits(t *testing.T) {
	e := newTestEngine(t)
	a, b := NewVariable("A"), NewVariable("B")
	var splits [][2]Term
	biAtomConcat3(e, e.cps.depth(), Atom("atom_concat").Of(a, b, Atom("ab")), func() bool {
		splits = append(splits, [2]Term{Deref(a), Deref(b)})
		return false
	})
	if len(splits) != 3 {
		t.Fatalf("atom_concat(A,B,ab) should have 3 splits, got %d: %v", len(splits), splits)
	}
	if splits[0][0] != Atom("") || splits[0][1] != Atom("ab") {
		t.Errorf("first split should be (\"\", \"ab\"), got %v", splits[0])
	}
}

func TestUpcaseDowncaseAtom(t *testing.T) {
	e := newTestEngine(t)
	sol, err := e.QueryOnce(Atom("upcase_atom").Of(Atom("Hello"), NewVariable("U")))
	if err != nil {
		t.Fatal(err)
	}
	if sol["U"] != Atom("HELLO") {
		t.Errorf("want HELLO, got %v", sol["U"])
	}

	sol, err = e.QueryOnce(Atom("downcase_atom").Of(Atom("Hello"), NewVariable("D")))
	if err != nil {
		t.Fatal(err)
	}
	if sol["D"] != Atom("hello") {
		t.Errorf("want hello, got %v", sol["D"])
	}
}

func TestSubAtomEnumeratesSubstrings(t *testing.T) {
	e := newTestEngine(t)
	before, length, after, sub := NewVariable("B"), NewVariable("L"), NewVariable("A"), NewVariable("Sub")
	var found bool
	biSubAtom5(e, e.cps.depth(), Atom("sub_atom").Of(Atom("abc"), before, length, after, sub), func() bool {
		if Deref(sub) == Atom("bc") {
			found = true
			return true
		}
		return false
	})
	if !found {
		t.Error("sub_atom should enumerate 'bc' as a substring of 'abc'")
	}
}
