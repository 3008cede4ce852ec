package wyrm

import (
	"sync"

	"golang.org/x/exp/maps"
)

// Predicate is the mutable clause list backing one functor/arity. All
// mutation goes through its own mutex so that a query iterating this
// predicate's clauses in one engine is never torn by a concurrent
// assert/retract from another (spec.md §5).
type Predicate struct {
	indicator FunctorTag
	mu        sync.RWMutex
	clauses   []*Clause
	dynamic   bool
	indexDirty bool
	index      map[firstArgKey][]*Clause
}

func newPredicate(ind FunctorTag) *Predicate {
	return &Predicate{indicator: ind, indexDirty: true}
}

// snapshot returns the current clause list. The returned slice must be
// treated as immutable by the caller: mutation always replaces
// p.clauses wholesale rather than editing in place, so a snapshot taken
// before a concurrent assert/retract remains a valid, stable view for a
// query already underway.
func (p *Predicate) snapshot() []*Clause {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clauses
}

func (p *Predicate) markDirtyLocked() {
	p.indexDirty = true
	p.index = nil
}

func (p *Predicate) addFirst(c *Clause) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fresh := make([]*Clause, 0, len(p.clauses)+1)
	fresh = append(fresh, c)
	fresh = append(fresh, p.clauses...)
	p.clauses = fresh
	p.markDirtyLocked()
}

func (p *Predicate) addLast(c *Clause) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fresh := make([]*Clause, len(p.clauses), len(p.clauses)+1)
	copy(fresh, p.clauses)
	fresh = append(fresh, c)
	p.clauses = fresh
	p.markDirtyLocked()
}

// removeFirst removes the first clause for which match returns true and
// reports whether one was found.
func (p *Predicate) removeFirst(match func(*Clause) bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range p.clauses {
		if match(c) {
			fresh := make([]*Clause, 0, len(p.clauses)-1)
			fresh = append(fresh, p.clauses[:i]...)
			fresh = append(fresh, p.clauses[i+1:]...)
			p.clauses = fresh
			p.markDirtyLocked()
			return true
		}
	}
	return false
}

// removeAll removes every clause for which match returns true, returning
// the count removed.
func (p *Predicate) removeAll(match func(*Clause) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	fresh := p.clauses[:0:0]
	removed := 0
	for _, c := range p.clauses {
		if match(c) {
			removed++
			continue
		}
		fresh = append(fresh, c)
	}
	p.clauses = fresh
	p.markDirtyLocked()
	return removed
}

// candidates returns the clauses compatible with goal's first argument,
// rebuilding the first-argument index lazily if it has gone stale since
// the last mutation.
func (p *Predicate) candidates(goal Term) []*Clause {
	key := firstArgKeyOf(goal)

	p.mu.RLock()
	if !p.indexDirty {
		idx := p.index
		clauses := p.clauses
		p.mu.RUnlock()
		return selectFromIndex(idx, clauses, key)
	}
	p.mu.RUnlock()

	p.mu.Lock()
	if p.indexDirty {
		p.index = buildIndex(p.clauses)
		p.indexDirty = false
	}
	idx := p.index
	clauses := p.clauses
	p.mu.Unlock()
	return selectFromIndex(idx, clauses, key)
}

func buildIndex(clauses []*Clause) map[firstArgKey][]*Clause {
	idx := make(map[firstArgKey][]*Clause)
	var wild []*Clause
	for _, c := range clauses {
		k := clauseFirstArgKey(c.Head)
		if k == wildcardKey {
			wild = append(wild, c)
			continue
		}
		idx[k] = append(idx[k], c)
	}
	if len(wild) > 0 {
		idx[wildcardKey] = wild
	}
	return idx
}

// selectFromIndex returns clauses compatible with key, preserving the
// original assert order: a wildcard-headed clause is compatible with
// every goal, so the wildcard bucket is always included.
func selectFromIndex(idx map[firstArgKey][]*Clause, all []*Clause, key firstArgKey) []*Clause {
	if key == wildcardKey || len(idx) == 0 {
		return all
	}
	bucket := idx[key]
	wild := idx[wildcardKey]
	if len(wild) == 0 {
		return bucket
	}
	if len(bucket) == 0 {
		return wild
	}
	// Merge while preserving assert order (stable merge of two
	// already-ordered subsequences of all).
	merged := make([]*Clause, 0, len(bucket)+len(wild))
	bi, wi := 0, 0
	for _, c := range all {
		if bi < len(bucket) && bucket[bi] == c {
			merged = append(merged, c)
			bi++
		} else if wi < len(wild) && wild[wi] == c {
			merged = append(merged, c)
			wi++
		}
	}
	return merged
}

// Database is the clause store for one engine's predicates, keyed by
// indicator (spec.md §4.5). How resolution reacts to a call of an
// unknown procedure is decided by the unknown flag in resolve.go's
// handleUnknown, not by anything held here.
type Database struct {
	mu    sync.RWMutex
	preds map[FunctorTag]*Predicate
}

func newDatabase() *Database {
	return &Database{preds: make(map[FunctorTag]*Predicate)}
}

// get returns the predicate for ind, or nil if it has never been
// declared.
func (d *Database) get(ind FunctorTag) *Predicate {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.preds[ind]
}

// getOrCreate returns the predicate for ind, creating an empty dynamic
// one if it doesn't exist yet.
func (d *Database) getOrCreate(ind FunctorTag) *Predicate {
	d.mu.RLock()
	p := d.preds[ind]
	d.mu.RUnlock()
	if p != nil {
		return p
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.preds[ind]; p != nil {
		return p
	}
	p = newPredicate(ind)
	p.dynamic = true
	d.preds[ind] = p
	return p
}

// declare registers ind (e.g. from a discontiguous/dynamic directive)
// without adding any clauses.
func (d *Database) declare(ind FunctorTag, dynamic bool) *Predicate {
	p := d.getOrCreate(ind)
	if dynamic {
		p.mu.Lock()
		p.dynamic = true
		p.mu.Unlock()
	}
	return p
}

// abolish removes ind entirely.
func (d *Database) abolish(ind FunctorTag) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.preds, ind)
}

// indicators returns every predicate indicator known to the database,
// in no particular order.
func (d *Database) indicators() []FunctorTag {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Keys(d.preds)
}
