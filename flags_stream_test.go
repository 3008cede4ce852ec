package wyrm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCurrentPrologFlagLooksUpByName(t *testing.T) {
	e := newTestEngine(t)
	sol, err := e.QueryOnce(Atom("current_prolog_flag").Of(Atom("bounded"), NewVariable("V")))
	if err != nil {
		t.Fatal(err)
	}
	if sol["V"] != Atom("true") {
		t.Errorf("want bounded=true, got %v", sol["V"])
	}
}

func TestCurrentPrologFlagEnumeratesAll(t *testing.T) {
	e := newTestEngine(t)
	name, val := NewVariable("Name"), NewVariable("Val")
	count := 0
	e.solve(Atom("current_prolog_flag").Of(name, val), e.cps.depth(), func() bool {
		count++
		return false
	})
	if count != len(e.flags.names()) {
		t.Errorf("want one solution per flag name, got %d", count)
	}
}

func TestSetPrologFlagUpdatesAccessor(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.QueryOnce(Atom("set_prolog_flag").Of(Atom("double_quotes"), Atom("atom"))); err != nil {
		t.Fatal(err)
	}
	v, _ := e.flags.get("double_quotes")
	if v != Atom("atom") {
		t.Errorf("want double_quotes updated to atom, got %v", v)
	}
}

func TestWriteAndWritelnToFile(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	stream := NewVariable("S")
	if _, err := e.QueryOnce(Atom("open").Of(Atom(path), Atom("write"), stream)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.QueryOnce(Atom("write").Of(stream, Atom("hi"))); err != nil {
		t.Fatal(err)
	}
	if _, err := e.QueryOnce(Atom("close").Of(stream)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Errorf("want file to contain %q, got %q", "hi", data)
	}
}

func TestWriteqQuotesAtomsNeedingIt(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	stream := NewVariable("S")
	if _, err := e.QueryOnce(Atom("open").Of(Atom(path), Atom("write"), stream)); err != nil {
		t.Fatal(err)
	}
	// writeq/1 is writeToStream with quoting on; aim it at the opened file.
	e.writeToStream(stream, Atom("needs quoting"), true)
	if _, err := e.QueryOnce(Atom("close").Of(stream)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "'needs quoting'" {
		t.Errorf("want file to contain %q, got %q", "'needs quoting'", data)
	}
}

func TestOpenUnknownModeThrowsDomainError(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		r := recover()
		pp, ok := r.(prologPanic)
		if !ok {
			t.Fatalf("expected a prologPanic for a bad io_mode, got %v", r)
		}
		c, ok := pp.ball.(Compound)
		if !ok || c.Functor != "error" {
			t.Errorf("expected error(...) ball, got %v", pp.ball)
		}
	}()
	e.biOpen(Atom("whatever"), Atom("nonsense"), NewVariable("S"), nil)
}

func TestOpenMissingFileThrowsExistenceError(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		r := recover()
		if _, ok := r.(prologPanic); !ok {
			t.Fatalf("expected a prologPanic for a missing file, got %v", r)
		}
	}()
	e.biOpen(Atom("/nonexistent/path/definitely-not-there"), Atom("read"), NewVariable("S"), nil)
}

func TestReadTermStubReturnsEndOfFile(t *testing.T) {
	e := newTestEngine(t)
	sol, err := e.QueryOnce(Atom("read_term").Of(NewVariable("T"), EmptyList))
	if err != nil {
		t.Fatal(err)
	}
	if sol["T"] != Atom("end_of_file") {
		t.Errorf("want end_of_file, got %v", sol["T"])
	}
}

func TestPutCharWritesSingleCharacter(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	stream := NewVariable("S")
	e.QueryOnce(Atom("open").Of(Atom(path), Atom("write"), stream))
	if _, err := e.QueryOnce(Atom("put_char").Of(stream, Atom("x"))); err != nil {
		t.Fatal(err)
	}
	e.QueryOnce(Atom("close").Of(stream))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x" {
		t.Errorf("want file to contain %q, got %q", "x", data)
	}
}

func TestPutCharRejectsMultiCharacterAtom(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		if _, ok := recover().(prologPanic); !ok {
			t.Fatal("put_char with a multi-character atom should throw a type_error")
		}
	}()
	e.putChar(Atom("user_output"), Atom("ab"))
}
