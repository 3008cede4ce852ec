package wyrm

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Stream is the external contract a stream handle must satisfy
// (spec.md §1/§6): wyrm owns the registry and the Opaque wrapper, not
// byte-level I/O policy.
type Stream interface {
	io.Reader
	io.Writer
	Flush() error
	Close() error
}

// textStream is the one concrete Stream wyrm ships out of the box, so
// user_output/user_input/write/1/nl/0/read_term/2 work without a host
// supplying anything: an os.File wrapped with buffered reads/writes.
type textStream struct {
	name string
	f    *os.File
	w    *bufio.Writer
	r    *bufio.Reader
	own  bool
}

func newTextStream(name string, f *os.File, own bool) *textStream {
	return &textStream{name: name, f: f, w: bufio.NewWriter(f), r: bufio.NewReader(f), own: own}
}

func (s *textStream) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s *textStream) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *textStream) Flush() error                { return s.w.Flush() }

func (s *textStream) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if !s.own {
		return nil
	}
	return s.f.Close()
}

// streamTable is the per-engine registry of open streams, keyed by
// alias atom (user_output, user_error, ...) and by the Opaque handle
// returned to Prolog code for anonymous streams.
type streamTable struct {
	mu      sync.RWMutex
	aliases map[Atom]Stream
	handles map[uint64]Stream
}

func newStreamTable() *streamTable {
	t := &streamTable{
		aliases: make(map[Atom]Stream),
		handles: make(map[uint64]Stream),
	}
	t.aliases["user_output"] = newTextStream("user_output", os.Stdout, false)
	t.aliases["user_error"] = newTextStream("user_error", os.Stderr, false)
	t.aliases["user_input"] = newTextStream("user_input", os.Stdin, false)
	return t
}

// resolve looks up a stream term: either an alias atom or an Opaque
// handle previously returned by open/register.
func (t *streamTable) resolve(term Term) (Stream, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch x := dereference(term).(type) {
	case Atom:
		s, ok := t.aliases[x]
		return s, ok
	case Opaque:
		s, ok := t.handles[x.id]
		return s, ok
	default:
		return nil, false
	}
}

// register adds a new anonymous stream, returning the Opaque handle
// Prolog code will use to refer to it.
func (t *streamTable) register(s Stream) Opaque {
	h := NewOpaque(s)
	t.mu.Lock()
	t.handles[h.id] = s
	t.mu.Unlock()
	return h
}

// close closes and forgets a single stream referred to by term.
func (t *streamTable) close(term Term) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch x := dereference(term).(type) {
	case Atom:
		s, ok := t.aliases[x]
		if !ok {
			return nil
		}
		delete(t.aliases, x)
		return s.Close()
	case Opaque:
		s, ok := t.handles[x.id]
		if !ok {
			return nil
		}
		delete(t.handles, x.id)
		return s.Close()
	default:
		return nil
	}
}

// closeAll closes every stream this engine opened, logging each error
// along the way and returning them combined, per spec.md §5 shutdown
// discipline: one bad stream must not stop the rest from closing.
func (t *streamTable) closeAll(logger hclog.Logger) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs error
	for name, s := range t.aliases {
		if err := s.Flush(); err != nil {
			logger.Warn("flushing stream failed", "stream", name, "error", err)
			errs = multierror.Append(errs, err)
		}
	}
	for id, s := range t.handles {
		if err := s.Close(); err != nil {
			logger.Warn("closing stream failed", "handle", id, "error", err)
			errs = multierror.Append(errs, err)
		}
		delete(t.handles, id)
	}
	return errs
}
