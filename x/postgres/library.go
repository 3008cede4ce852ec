package postgres

import (
	"context"
	"fmt"

	"github.com/wyrmlang/wyrm"
)

var predicates = []struct {
	name  wyrm.Atom
	arity int
	proc  wyrm.Builtin
}{
	{"pg_open", 2, pgOpen2},
	{"pg_query", 4, pgQuery4},
}

// Register installs pg_open/2 and pg_query/4 on e, the way the
// teacher's own x/postgres.Register wires its predicates into a
// trealla.Prolog instance. ctx is accepted for symmetry with that
// signature and future use (e.g. a connection pool context) but is not
// yet threaded through to individual queries.
func Register(ctx context.Context, e *wyrm.Engine) error {
	for _, pred := range predicates {
		if err := e.Register(pred.name, pred.arity, pred.proc); err != nil {
			return fmt.Errorf("failed to register predicate %s/%d: %w", pred.name, pred.arity, err)
		}
	}
	return nil
}
