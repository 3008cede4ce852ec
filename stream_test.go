package wyrm

import (
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestStreamTableResolvesBuiltinAliases(t *testing.T) {
	st := newStreamTable()
	if _, ok := st.resolve(Atom("user_output")); !ok {
		t.Error("user_output should resolve out of the box")
	}
	if _, ok := st.resolve(Atom("user_input")); !ok {
		t.Error("user_input should resolve out of the box")
	}
	if _, ok := st.resolve(Atom("nope")); ok {
		t.Error("an unregistered alias should not resolve")
	}
}

func TestStreamTableRegisterAndResolveHandle(t *testing.T) {
	st := newStreamTable()
	f, err := os.CreateTemp(t.TempDir(), "wyrm-stream-*")
	if err != nil {
		t.Fatal(err)
	}
	h := st.register(newTextStream("tmp", f, true))

	s, ok := st.resolve(h)
	if !ok || s == nil {
		t.Fatal("a freshly registered handle should resolve")
	}
}

func TestStreamTableCloseForgetsHandle(t *testing.T) {
	st := newStreamTable()
	f, err := os.CreateTemp(t.TempDir(), "wyrm-stream-*")
	if err != nil {
		t.Fatal(err)
	}
	h := st.register(newTextStream("tmp", f, true))

	if err := st.close(h); err != nil {
		t.Fatalf("closing a handle should not error: %v", err)
	}
	if _, ok := st.resolve(h); ok {
		t.Error("a closed handle should no longer resolve")
	}
}

func TestStreamTableCloseUnknownIsNoop(t *testing.T) {
	st := newStreamTable()
	if err := st.close(Atom("nope")); err != nil {
		t.Errorf("closing an unknown alias should be a no-op, got %v", err)
	}
}

func TestTextStreamWriteAndFlush(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "wyrm-stream-*")
	if err != nil {
		t.Fatal(err)
	}
	ts := newTextStream("tmp", f, true)
	if _, err := ts.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := ts.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := ts.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("want file contents %q, got %q", "hello", data)
	}
}

func TestStreamTableCloseAllClosesOpenedHandles(t *testing.T) {
	st := newStreamTable()
	f, err := os.CreateTemp(t.TempDir(), "wyrm-stream-*")
	if err != nil {
		t.Fatal(err)
	}
	h := st.register(newTextStream("tmp", f, true))

	logger := hclog.NewNullLogger()
	if err := st.closeAll(logger); err != nil {
		t.Errorf("closeAll should not error on well-behaved streams: %v", err)
	}
	if _, ok := st.resolve(h); ok {
		t.Error("closeAll should have forgotten the opened handle")
	}
}
