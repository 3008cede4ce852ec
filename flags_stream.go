package wyrm

import "os"

// registerFlagStreamBuiltins installs the flag-inspection predicates
// and the text-stream predicates of spec.md §4.14. Parsing read terms
// from a stream is out of scope (spec.md §1: wyrm consumes already
// parsed terms), so read_term/2,3 read nothing from the stream: they
// always unify their term argument with end_of_file.
func registerFlagStreamBuiltins(e *Engine) {
	def(e, "current_prolog_flag", 2, biCurrentPrologFlag2)
	def(e, "set_prolog_flag", 2, det(func(e *Engine, g Compound) bool {
		name, ok := dereference(g.Args[0]).(Atom)
		if !ok {
			throwBall(typeError("atom", g.Args[0], nil))
		}
		e.flags.set(name, dereference(g.Args[1]))
		return true
	}))

	def(e, "write", 1, det(func(e *Engine, g Compound) bool {
		return e.writeToStream(Atom("user_output"), g.Args[0], false)
	}))
	def(e, "write", 2, det(func(e *Engine, g Compound) bool {
		return e.writeToStream(g.Args[0], g.Args[1], false)
	}))
	def(e, "print", 1, det(func(e *Engine, g Compound) bool {
		return e.writeToStream(Atom("user_output"), g.Args[0], false)
	}))
	def(e, "write_canonical", 1, det(func(e *Engine, g Compound) bool {
		return e.writeToStream(Atom("user_output"), g.Args[0], true)
	}))
	def(e, "writeq", 1, det(func(e *Engine, g Compound) bool {
		return e.writeToStream(Atom("user_output"), g.Args[0], true)
	}))
	def(e, "writeln", 1, det(func(e *Engine, g Compound) bool {
		if !e.writeToStream(Atom("user_output"), g.Args[0], false) {
			return false
		}
		return e.writeNewline(Atom("user_output"))
	}))

	def(e, "nl", 0, det(func(e *Engine, g Compound) bool {
		return e.writeNewline(Atom("user_output"))
	}))
	def(e, "nl", 1, det(func(e *Engine, g Compound) bool {
		return e.writeNewline(g.Args[0])
	}))

	def(e, "put_char", 1, det(func(e *Engine, g Compound) bool {
		return e.putChar(Atom("user_output"), g.Args[0])
	}))
	def(e, "put_char", 2, det(func(e *Engine, g Compound) bool {
		return e.putChar(g.Args[0], g.Args[1])
	}))
	def(e, "tab", 1, det(func(e *Engine, g Compound) bool {
		n := asInt(e, e.evaluate(g.Args[0]), nil)
		s := e.mustStream(Atom("user_output"))
		for i := int64(0); i < n; i++ {
			if _, err := s.Write([]byte{' '}); err != nil {
				throwBall(systemError(Atom(err.Error()), nil))
			}
		}
		return s.Flush() == nil
	}))

	def(e, "flush_output", 0, det(func(e *Engine, g Compound) bool {
		return e.mustStream(Atom("user_output")).Flush() == nil
	}))
	def(e, "flush_output", 1, det(func(e *Engine, g Compound) bool {
		return e.mustStream(g.Args[0]).Flush() == nil
	}))

	def(e, "open", 3, det(func(e *Engine, g Compound) bool { return e.biOpen(g.Args[0], g.Args[1], g.Args[2], nil) }))
	def(e, "open", 4, det(func(e *Engine, g Compound) bool { return e.biOpen(g.Args[0], g.Args[1], g.Args[2], g.Args[3]) }))
	def(e, "close", 1, det(func(e *Engine, g Compound) bool { return e.biClose(g.Args[0]) }))
	def(e, "close", 2, det(func(e *Engine, g Compound) bool { return e.biClose(g.Args[0]) }))

	def(e, "read_term", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[0], Atom("end_of_file"))
	}))
	def(e, "read_term", 3, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[1], Atom("end_of_file"))
	}))
}

func biCurrentPrologFlag2(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	mark := e.trail.mark()
	if name, ok := dereference(goal.Args[0]).(Atom); ok {
		v, ok := e.flags.get(name)
		if !ok {
			return false
		}
		if unify(e.trail, goal.Args[1], v) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}

	names := e.flags.names()
	for i, name := range names {
		last := i == len(names)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		v, _ := e.flags.get(name)
		if unify(e.trail, goal.Args[0], name) && unify(e.trail, goal.Args[1], v) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !last {
			if !guard.alive() {
				return false
			}
			guard.release()
		}
	}
	return false
}

func (e *Engine) mustStream(term Term) Stream {
	s, ok := e.streams.resolve(term)
	if !ok {
		throwBall(existenceError(Atom("stream"), term, nil))
	}
	return s
}

func (e *Engine) writeToStream(streamTerm, t Term, quoted bool) bool {
	s := e.mustStream(streamTerm)
	var rendered string
	if quoted {
		rendered = text(t)
	} else {
		rendered = textUnquoted(t)
	}
	if _, err := s.Write([]byte(rendered)); err != nil {
		throwBall(systemError(Atom(err.Error()), nil))
	}
	return s.Flush() == nil
}

func (e *Engine) writeNewline(streamTerm Term) bool {
	s := e.mustStream(streamTerm)
	if _, err := s.Write([]byte{'\n'}); err != nil {
		throwBall(systemError(Atom(err.Error()), nil))
	}
	return s.Flush() == nil
}

func (e *Engine) putChar(streamTerm, charTerm Term) bool {
	a, ok := dereference(charTerm).(Atom)
	if !ok || len([]rune(string(a))) != 1 {
		throwBall(typeError("character", charTerm, nil))
	}
	s := e.mustStream(streamTerm)
	if _, err := s.Write([]byte(string(a))); err != nil {
		throwBall(systemError(Atom(err.Error()), nil))
	}
	return s.Flush() == nil
}

// biOpen implements open/3,4: SourceSink is a file name atom, Mode is
// one of read/write/append, Stream unifies with the Opaque handle.
// Options (open/4's fourth argument) are accepted but not interpreted,
// since wyrm's one Stream implementation has no encoding/alias knobs
// worth exposing yet.
func (e *Engine) biOpen(sourceSink, mode, streamVar Term, options Term) bool {
	name, ok := atomText(sourceSink)
	if !ok {
		throwBall(typeError("atomic", sourceSink, nil))
	}
	modeAtom, ok := dereference(mode).(Atom)
	if !ok {
		throwBall(typeError("atom", mode, nil))
	}

	var flag int
	switch modeAtom {
	case "read":
		flag = os.O_RDONLY
	case "write":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "append":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		throwBall(domainError("io_mode", mode, nil))
	}

	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		throwBall(existenceError(Atom("source_sink"), sourceSink, nil))
	}
	handle := e.streams.register(newTextStream(name, f, true))
	return unify(e.trail, streamVar, handle)
}

func (e *Engine) biClose(streamTerm Term) bool {
	if err := e.streams.close(streamTerm); err != nil {
		throwBall(systemError(Atom(err.Error()), nil))
	}
	return true
}

// textUnquoted renders t like text (term.go) but never quotes atoms,
// matching write/1's ISO semantics as distinct from writeq/1.
func textUnquoted(t Term) string {
	switch x := dereference(t).(type) {
	case Atom:
		return string(x)
	case Compound:
		if x.Functor == "." && len(x.Args) == 2 {
			return text(x)
		}
		out := string(x.Functor) + "("
		for i, a := range x.Args {
			if i > 0 {
				out += ", "
			}
			out += textUnquoted(a)
		}
		return out + ")"
	default:
		return text(t)
	}
}
