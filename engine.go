package wyrm

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Builtin is the contract every native predicate implements: it
// receives the engine, the cut barrier in effect at the call site, the
// goal's arguments (already flattened into a Compound regardless of
// arity), and a success continuation, and returns whether the overall
// search is now satisfied (spec.md §4.9).
type Builtin func(e *Engine, barrier CPMark, goal Compound, k Cont) bool

// Engine is a single-threaded Prolog execution context: one clause
// database, one trail, one choice-point stack. Nothing in Engine is
// safe for concurrent use by more than one goroutine at a time; share
// work across goroutines with a Pool (pool.go) instead, following
// spec.md §5.
type Engine struct {
	db    *Database
	trail *trail
	cps   *cpStack

	builtins map[FunctorTag]Builtin

	flags *flagSet

	streams *streamTable

	logger hclog.Logger

	rng *rand.Rand

	occursCheck bool
	indexing    bool
	lengthCap   int

	ctx   context.Context
	steps uint64

	haltCode *int

	mu sync.Mutex // guards haltCode only; everything else is single-goroutine
}

// Option configures a new Engine, following the functional-options
// idiom used throughout this codebase's ancestry.
type Option func(*Engine)

// WithLogger installs a structured logger. The default is a null
// logger, so an Engine built with no options produces no log output.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOccursCheck records an occurs-check setting on the engine, which
// Clone and pool replicas copy. Unification does not read it: =/2 and
// clause-head unification never perform the occurs check, whatever the
// setting. ISO leaves this implementation-defined; wyrm defaults to off,
// matching spec.md §9.
func WithOccursCheck(on bool) Option {
	return func(e *Engine) { e.occursCheck = on }
}

// WithIndexing toggles first-argument clause indexing. It is on by
// default; disabling it is mostly useful for testing solveUser's
// fallback path.
func WithIndexing(on bool) Option {
	return func(e *Engine) { e.indexing = on }
}

// WithLengthEnumerationCap bounds how many solutions length/2 will
// enumerate when both its arguments are unbound, per spec.md §9 Open
// Question. The default is 10000.
func WithLengthEnumerationCap(n int) Option {
	return func(e *Engine) { e.lengthCap = n }
}

// WithUnknownAction sets the default reaction to calling an undeclared
// predicate: "error" (default), "fail", or "warning".
func WithUnknownAction(action string) Option {
	return func(e *Engine) {
		switch action {
		case "fail":
			e.flags.setUnknown(unknownFail)
		case "warning":
			e.flags.setUnknown(unknownWarning)
		default:
			e.flags.setUnknown(unknownError)
		}
	}
}

// WithRandomSource installs a deterministic random source for
// random/1, overriding the process-seeded default. Tests use this to
// get reproducible sequences.
func WithRandomSource(src rand.Source) Option {
	return func(e *Engine) { e.rng = rand.New(src) }
}

// New builds an Engine with its builtin registry installed and its
// bootstrap library predicates loaded.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		db:        newDatabase(),
		trail:     newTrail(),
		cps:       newCPStack(),
		builtins:  make(map[FunctorTag]Builtin),
		flags:     newFlagSet(),
		streams:   newStreamTable(),
		logger:    hclog.NewNullLogger(),
		rng:       rand.New(rand.NewPCG(1, 2)),
		indexing:  true,
		lengthCap: 10000,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	registerBuiltins(e)
	if err := loadBootstrap(e); err != nil {
		return nil, err
	}
	return e, nil
}

// tickContext is called from the hot path in solve; it checks for
// query cancellation every so often rather than on every single goal
// dispatch, to keep ctx.Err() off the common path.
func (e *Engine) tickContext() {
	e.steps++
	if e.steps&0x3FF != 0 {
		return
	}
	if err := e.ctx.Err(); err != nil {
		throwBall(systemError(Atom(err.Error()), nil))
	}
}

// Consult loads clauses and directives produced by an external parser
// (spec.md §1: wyrm's loader accepts already-parsed terms, not text).
// Every entry in clauses is added with assertz semantics; then each
// entry in directives is run as a goal via QueryOnce. A directive that
// fails is ignored; the first one that raises an error stops the load
// and its error is returned.
func (e *Engine) Consult(clauses []*Clause, directives []Term) error {
	for _, c := range clauses {
		e.assertClause(c, true)
	}
	for _, d := range directives {
		if _, err := e.QueryOnce(d); err != nil && err != ErrFailure {
			return err
		}
	}
	return nil
}

// Unify attempts to bind a and b, trailing every variable binding it
// makes so a later backtrack can undo them. It is the one piece of
// engine-internal state (the trail) that external builtin packages
// need in order to act like any other native predicate.
func (e *Engine) Unify(a, b Term) bool {
	return unify(e.trail, a, b)
}

// Throw raises ball as a Prolog exception, unwinding to the nearest
// enclosing catch/3 the way throw/1 does.
func (e *Engine) Throw(ball Term) {
	throwBall(CopyTerm(ball))
}

// Register installs a native predicate under name/arity, for host
// programs and extension packages (x/postgres) that add builtins of
// their own rather than Prolog-level library clauses. It overwrites
// any existing registration for the same indicator, mirroring the
// teacher's own pl.Register entry point.
func (e *Engine) Register(name Atom, arity int, fn Builtin) error {
	e.builtins[FunctorTag{Name: name, Arity: arity}] = fn
	return nil
}

func (e *Engine) assertClause(c *Clause, atEnd bool) {
	ind := indicatorOf(c.Head)
	pred := e.db.getOrCreate(ind)
	if atEnd {
		pred.addLast(c)
	} else {
		pred.addFirst(c)
	}
}

// Close releases every resource this engine owns (open streams, for
// now), per spec.md §5. It logs each error it meets and keeps closing
// the rest, then returns those errors combined (nil if there were none).
func (e *Engine) Close() error {
	return e.streams.closeAll(e.logger)
}

// Clone returns a fresh Engine sharing this one's builtin registry,
// flags snapshot, and logger, but starting with an empty trail and
// choice-point stack. It does not share the clause database; use a
// Pool (pool.go) when concurrent goroutines need a shared database.
func (e *Engine) Clone() *Engine {
	clone := &Engine{
		db:        newDatabase(),
		trail:     newTrail(),
		cps:       newCPStack(),
		builtins:  e.builtins,
		flags:     e.flags.clone(),
		streams:   newStreamTable(),
		logger:    e.logger,
		rng:       rand.New(rand.NewPCG(1, 2)),
		occursCheck: e.occursCheck,
		indexing:  e.indexing,
		lengthCap: e.lengthCap,
		ctx:       context.Background(),
	}
	return clone
}
