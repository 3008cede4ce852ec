// Package postgres registers pg_open/2 and pg_query/4 as native wyrm
// predicates backed by database/sql and lib/pq, the way the teacher's
// own x/postgres extension wires PostgreSQL access in behind a
// Register(ctx, engine) entry point.
package postgres

import (
	"database/sql"
	"sync"
	"sync/atomic"
)

var (
	currentID   int64
	connections sync.Map // id int64 -> *sql.DB
)

func nextID() int64 {
	return atomic.AddInt64(&currentID, 1)
}

func getConn(id int64) (*sql.DB, bool) {
	v, ok := connections.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*sql.DB), true
}
