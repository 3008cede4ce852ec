package wyrm

import "context"

// Query is a pull-style iterator over a goal's solutions. It bridges
// solve's push-style continuation (spec.md §4.4: the producer calls k
// once per solution and reads its answer to decide whether to keep
// searching) to the Next/Current/Close shape callers actually want,
// the way the teacher's own Query interface does over its WASM
// subprocess boundary — except here the "subprocess" is a goroutine
// handed off to with an unbuffered channel, one solution at a time,
// so the engine is never touched by two goroutines at once.
type Query struct {
	e    *Engine
	goal Term
	vars []*Variable

	resume chan bool
	yield  chan queryEvent

	done bool
	cur  Solution
	err  error
}

type queryEvent struct {
	sol Solution
	err error
	eof bool
}

// Query starts a resumable search for goal's solutions. ctx governs
// cancellation: the engine checks it cooperatively every so many
// resolution steps (Engine.tickContext) and aborts the search with
// ctx.Err() wrapped as an error the way any other thrown exception is
// reported.
func (e *Engine) Query(ctx context.Context, goal Term) *Query {
	e.ctx = ctx
	q := &Query{
		e:      e,
		goal:   goal,
		resume: make(chan bool),
		yield:  make(chan queryEvent),
	}
	names := make(map[string]bool)
	collectNamedVars(goal, names, &q.vars)
	go q.run()
	return q
}

func collectNamedVars(t Term, seen map[string]bool, order *[]*Variable) {
	switch x := dereference(t).(type) {
	case *Variable:
		if x.Name == "" || x.Name[0] == '_' || seen[x.Name] {
			return
		}
		seen[x.Name] = true
		*order = append(*order, x)
	case Compound:
		for _, a := range x.Args {
			collectNamedVars(a, seen, order)
		}
	}
}

func (q *Query) run() {
	defer func() {
		ev := queryEvent{eof: true}
		switch r := recover().(type) {
		case nil:
		case prologPanic:
			ev.err = ErrThrow{Ball: r.ball}
		case haltPanic:
			ev.err = ErrHalt{Code: r.code}
		default:
			q.yield <- ev
			panic(r)
		}
		q.yield <- ev
	}()

	if !<-q.resume {
		return
	}

	barrier := q.e.cps.depth()
	q.e.solve(q.goal, barrier, func() bool {
		sol := make(Solution, len(q.vars))
		for _, v := range q.vars {
			sol[v.Name] = CopyTerm(v)
		}
		q.yield <- queryEvent{sol: sol}
		return !<-q.resume
	})
}

// Next computes the next solution, returning false once the search is
// exhausted (check Err afterward to tell "no more solutions" apart
// from "aborted by an exception").
func (q *Query) Next() bool {
	if q.done {
		return false
	}
	q.resume <- true
	ev := <-q.yield
	if ev.eof {
		q.done = true
		q.err = ev.err
		return false
	}
	q.cur = ev.sol
	return true
}

// Current returns the solution prepared by the last call to Next.
func (q *Query) Current() Solution {
	return q.cur
}

// Close abandons the search early. It is not necessary to call this
// if Next is run to exhaustion.
func (q *Query) Close() error {
	if q.done {
		return q.err
	}
	q.resume <- false
	ev := <-q.yield
	q.done = true
	if ev.err != nil {
		q.err = ev.err
	}
	return q.err
}

// Err returns the error that ended the search, if any.
func (q *Query) Err() error {
	return q.err
}

// QueryOnce runs goal to its first solution (if any) and closes the
// search immediately, the way the teacher's prolog.QueryOnce wraps
// Query for the common "just give me one answer" case. It uses the
// engine's current context (set by the last call to Query, or
// context.Background() by default), matching Consult's own directive
// execution.
func (e *Engine) QueryOnce(goal Term) (Solution, error) {
	return e.QueryContext(e.ctx, goal)
}

// QueryContext is QueryOnce with an explicit context, for callers that
// want per-call cancellation without going through the Query iterator
// directly.
func (e *Engine) QueryContext(ctx context.Context, goal Term) (Solution, error) {
	q := e.Query(ctx, goal)
	defer q.Close()
	if q.Next() {
		return q.Current(), nil
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	return nil, ErrFailure
}
