package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/wyrmlang/wyrm"
)

// pgOpen2 implements pg_open/2: ConnString is a Postgres connection
// string (atom or char list), Handle unifies with pg(ID), an
// opaque integer id wyrm.Engine keeps no further track of beyond this
// package's own connections map.
func pgOpen2(e *wyrm.Engine, _ wyrm.CPMark, goal wyrm.Compound, k wyrm.Cont) bool {
	connStr, ok := termText(goal.Args[0])
	if !ok {
		e.Throw(typeError("atomic", goal.Args[0]))
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		e.Throw(dbError(err))
	}
	if err := db.Ping(); err != nil {
		db.Close()
		e.Throw(dbError(err))
	}

	id := nextID()
	connections.Store(id, db)

	handle := wyrm.Atom("pg").Of(wyrm.Integer(id))
	if e.Unify(goal.Args[1], handle) {
		if k() {
			return true
		}
	}
	return false
}

// pgQuery4 implements pg_query/4: Handle is a pg(ID) term from
// pg_open/2, Query is the SQL text, Args is a list of bind parameters,
// and Rows unifies with a list of row(Col1, ..., ColN) compounds, one
// per result row.
func pgQuery4(e *wyrm.Engine, _ wyrm.CPMark, goal wyrm.Compound, k wyrm.Cont) bool {
	id, ok := handleID(goal.Args[0])
	if !ok {
		e.Throw(typeError("db_connection", goal.Args[0]))
	}
	db, ok := getConn(id)
	if !ok {
		e.Throw(domainError("db_connection", goal.Args[0]))
	}

	query, ok := termText(goal.Args[1])
	if !ok {
		e.Throw(typeError("atomic", goal.Args[1]))
	}

	argTerms, ok := wyrm.ListToSlice(goal.Args[2])
	if !ok {
		e.Throw(typeError("list", goal.Args[2]))
	}
	args := make([]any, len(argTerms))
	for i, t := range argTerms {
		args[i] = termToSQLArg(t)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		e.Throw(dbError(err))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		e.Throw(dbError(err))
	}

	var result []wyrm.Term
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			e.Throw(dbError(err))
		}
		values := make([]wyrm.Term, len(cols))
		for i, v := range raw {
			values[i] = sqlValueToTerm(v)
		}
		result = append(result, wyrm.Atom("row").Of(values...))
	}
	if err := rows.Err(); err != nil {
		e.Throw(dbError(err))
	}

	if e.Unify(goal.Args[3], wyrm.ListFromSlice(result)) {
		if k() {
			return true
		}
	}
	return false
}

func handleID(t wyrm.Term) (int64, bool) {
	c, ok := wyrm.Deref(t).(wyrm.Compound)
	if !ok || c.Functor != "pg" || len(c.Args) != 1 {
		return 0, false
	}
	n, ok := wyrm.Deref(c.Args[0]).(wyrm.Integer)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func termText(t wyrm.Term) (string, bool) {
	switch x := wyrm.Deref(t).(type) {
	case wyrm.Atom:
		return string(x), true
	}
	if items, ok := wyrm.ListToSlice(t); ok {
		var s []rune
		for _, item := range items {
			a, ok := wyrm.Deref(item).(wyrm.Atom)
			if !ok {
				return "", false
			}
			s = append(s, []rune(string(a))...)
		}
		return string(s), true
	}
	return "", false
}

func termToSQLArg(t wyrm.Term) any {
	switch x := wyrm.Deref(t).(type) {
	case wyrm.Integer:
		return int64(x)
	case wyrm.Float:
		return x.Value
	case wyrm.Atom:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func sqlValueToTerm(v any) wyrm.Term {
	switch x := v.(type) {
	case nil:
		return wyrm.Atom("null")
	case int64:
		return wyrm.Integer(x)
	case float64:
		return wyrm.NewFloat(x)
	case bool:
		if x {
			return wyrm.Atom("true")
		}
		return wyrm.Atom("false")
	case []byte:
		return wyrm.Atom(string(x))
	case string:
		return wyrm.Atom(x)
	default:
		return wyrm.Atom(fmt.Sprintf("%v", x))
	}
}

func dbError(err error) wyrm.Term {
	return wyrm.Atom("error").Of(wyrm.Atom("db_error").Of(wyrm.Atom(err.Error())), wyrm.NewVariable(""))
}

func typeError(kind string, culprit wyrm.Term) wyrm.Term {
	return wyrm.Atom("error").Of(wyrm.Atom("type_error").Of(wyrm.Atom(kind), culprit), wyrm.NewVariable(""))
}

func domainError(domain string, culprit wyrm.Term) wyrm.Term {
	return wyrm.Atom("error").Of(wyrm.Atom("domain_error").Of(wyrm.Atom(domain), culprit), wyrm.NewVariable(""))
}
