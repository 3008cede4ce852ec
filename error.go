package wyrm

import (
	"errors"
	"fmt"
)

// ErrFailure is returned when a goal has no (more) solutions.
var ErrFailure = errors.New("wyrm: query failed")

// ErrThrow wraps a Prolog exception term escaping to the engine
// façade with no matching catch/3 frame.
type ErrThrow struct {
	// Ball is the term passed to throw/1.
	Ball Term
}

func (e ErrThrow) Error() string {
	return fmt.Sprintf("wyrm: exception thrown: %s", text(e.Ball))
}

// ErrHalt is returned (wrapped around [ErrThrow]-like unwinding) when
// halt/0 or halt/1 unwinds the engine.
type ErrHalt struct {
	Code int
}

func (e ErrHalt) Error() string {
	return fmt.Sprintf("wyrm: halt(%d)", e.Code)
}

// prologPanic is how throw/1 unwinds Go's call stack back to the
// nearest catch/3 frame (see meta.go); it is always recovered inside
// this package and never escapes to callers as a panic.
type prologPanic struct {
	ball Term
}

type haltPanic struct {
	code int
}

func throwBall(ball Term) {
	panic(prologPanic{ball: ball})
}

// errorTerm builds error(Formal, Context).
func errorTerm(formal Term, context Term) Compound {
	return Atom("error").Of(formal, context)
}

func instantiationError(context Term) Compound {
	return errorTerm(Atom("instantiation_error"), context)
}

func typeError(kind Atom, culprit Term, context Term) Compound {
	return errorTerm(Atom("type_error").Of(kind, culprit), context)
}

func domainError(domain Atom, culprit Term, context Term) Compound {
	return errorTerm(Atom("domain_error").Of(domain, culprit), context)
}

func existenceError(objectType Atom, name Term, context Term) Compound {
	return errorTerm(Atom("existence_error").Of(objectType, name), context)
}

func permissionError(op, objectType Atom, name Term, context Term) Compound {
	return errorTerm(Atom("permission_error").Of(op, objectType, name), context)
}

func representationError(what Atom, context Term) Compound {
	return errorTerm(Atom("representation_error").Of(what), context)
}

func evaluationError(what Atom, context Term) Compound {
	return errorTerm(Atom("evaluation_error").Of(what), context)
}

func syntaxErrorTerm(detail Atom, context Term) Compound {
	return errorTerm(Atom("syntax_error").Of(detail), context)
}

func systemError(cause Term, context Term) Compound {
	return errorTerm(Atom("system_error").Of(cause), context)
}

func piTerm(name Atom, arity int) Compound {
	return Atom("/").Of(name, Integer(arity))
}
