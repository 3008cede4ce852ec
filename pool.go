package wyrm

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// Pool is a set of Engines sharing one canonical clause Database,
// modeled on the teacher's own Pool/WriteTx/ReadTx round-robin
// design, adapted so replicas share a *Database (already safe for a
// reader mid-mutation thanks to its copy-on-write clause slices, see
// database.go) instead of needing a WASM-memory clone kept in sync by
// hand after every write, per spec.md §5.
type Pool struct {
	canon    *Engine
	children []*Engine
	rr       atomic.Uint64
	mu       sync.RWMutex

	size int
	opts []Option
}

// PoolOption configures a new Pool.
type PoolOption func(*Pool) error

// WithPoolSize sets the number of read replicas. The default is
// runtime.NumCPU().
func WithPoolSize(replicas int) PoolOption {
	return func(p *Pool) error {
		if replicas < 1 {
			return fmt.Errorf("wyrm: pool size too low: %d", replicas)
		}
		p.size = replicas
		return nil
	}
}

// WithPoolEngineOptions passes options through to the canonical Engine
// (and therefore to every replica too: replicas share its flag set by
// pointer and copy its logger, occurs-check, indexing and length-cap
// settings when spawned).
func WithPoolEngineOptions(options ...Option) PoolOption {
	return func(p *Pool) error {
		p.opts = append(p.opts, options...)
		return nil
	}
}

// NewPool builds a Pool: one canonical Engine that owns the writable
// database, plus a ring of replica Engines for concurrent read-only
// queries.
func NewPool(options ...PoolOption) (*Pool, error) {
	p := &Pool{size: runtime.NumCPU()}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	canon, err := New(p.opts...)
	if err != nil {
		return nil, err
	}
	p.canon = canon

	p.children = make([]*Engine, p.size)
	for i := range p.children {
		p.children[i] = p.canon.replica()
	}
	return p, nil
}

// replica builds a new Engine that shares e's clause database and
// flags but has its own trail, choice-point stack, and random source,
// so it can run a query concurrently with other replicas (and with
// the canonical Engine, as long as nothing else is writing).
func (e *Engine) replica() *Engine {
	return &Engine{
		db:          e.db,
		trail:       newTrail(),
		cps:         newCPStack(),
		builtins:    e.builtins,
		flags:       e.flags,
		streams:     newStreamTable(),
		logger:      e.logger,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		occursCheck: e.occursCheck,
		indexing:    e.indexing,
		lengthCap:   e.lengthCap,
		ctx:         e.ctx,
	}
}

// WriteTx runs tx against the canonical Engine under an exclusive
// lock. Use this for assert/retract, Consult, or anything else that
// mutates the shared database.
func (p *Pool) WriteTx(tx func(*Engine) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return tx(p.canon)
}

// ReadTx runs tx against a round-robin replica Engine under a shared
// lock. tx must not assert, retract, or otherwise mutate the database;
// nothing stops it from trying, but doing so defeats the whole point
// of reading through a replica.
func (p *Pool) ReadTx(tx func(*Engine) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return tx(p.child())
}

func (p *Pool) child() *Engine {
	n := p.rr.Add(1) % uint64(len(p.children))
	return p.children[n]
}

// Close closes every replica and the canonical Engine.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs error
	for _, child := range p.children {
		if err := child.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := p.canon.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}
