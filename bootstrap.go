package wyrm

// loadBootstrap asserts the handful of library predicates that are
// more naturally written as Prolog clauses over call/N than as native
// Go: maplist/2..5 and foldl/4..6. Everything else in the list/atom
// library (lists.go, atoms.go) either needs the nondeterministic
// choice-point discipline directly or is cheap enough in Go that a
// clause body would only add overhead.
//
// The clauses are built directly as terms rather than parsed from
// Prolog source text, matching the boundary spec.md §1 draws: wyrm's
// loader (and by extension its own bootstrap) consumes already-parsed
// terms, never raw text.
func loadBootstrap(e *Engine) error {
	for _, cl := range bootstrapClauses() {
		e.assertClause(cl, true)
	}
	return nil
}

func bootstrapClauses() []*Clause {
	var clauses []*Clause
	add := func(head, body Term) {
		clauses = append(clauses, NewClause(head, body))
	}

	v := func(name string) *Variable { return NewVariable(name) }
	call := func(args ...Term) Term { return Atom("call").Of(args...) }
	comma := func(a, b Term) Term { return Atom(",").Of(a, b) }

	// maplist(Goal, []).
	// maplist(Goal, [X|Xs]) :- call(Goal, X), maplist(Goal, Xs).
	{
		goal := v("Goal")
		add(Atom("maplist").Of(goal, EmptyList), Atom("true"))

		goal = v("Goal")
		x, xs := v("X"), v("Xs")
		add(
			Atom("maplist").Of(goal, Cons(x, xs)),
			comma(call(goal, x), Atom("maplist").Of(goal, xs)),
		)
	}

	// maplist(Goal, [], []).
	// maplist(Goal, [X|Xs], [Y|Ys]) :- call(Goal, X, Y), maplist(Goal, Xs, Ys).
	{
		goal := v("Goal")
		add(Atom("maplist").Of(goal, EmptyList, EmptyList), Atom("true"))

		goal = v("Goal")
		x, xs, y, ys := v("X"), v("Xs"), v("Y"), v("Ys")
		add(
			Atom("maplist").Of(goal, Cons(x, xs), Cons(y, ys)),
			comma(call(goal, x, y), Atom("maplist").Of(goal, xs, ys)),
		)
	}

	// maplist(Goal, [], [], []).
	// maplist(Goal, [X|Xs], [Y|Ys], [Z|Zs]) :- call(Goal, X, Y, Z), maplist(Goal, Xs, Ys, Zs).
	{
		goal := v("Goal")
		add(Atom("maplist").Of(goal, EmptyList, EmptyList, EmptyList), Atom("true"))

		goal = v("Goal")
		x, xs, y, ys, z, zs := v("X"), v("Xs"), v("Y"), v("Ys"), v("Z"), v("Zs")
		add(
			Atom("maplist").Of(goal, Cons(x, xs), Cons(y, ys), Cons(z, zs)),
			comma(call(goal, x, y, z), Atom("maplist").Of(goal, xs, ys, zs)),
		)
	}

	// maplist(Goal, [], [], [], []).
	// maplist(Goal, [W|Ws], [X|Xs], [Y|Ys], [Z|Zs]) :-
	//     call(Goal, W, X, Y, Z), maplist(Goal, Ws, Xs, Ys, Zs).
	{
		goal := v("Goal")
		add(Atom("maplist").Of(goal, EmptyList, EmptyList, EmptyList, EmptyList), Atom("true"))

		goal = v("Goal")
		w, ws, x, xs, y, ys, z, zs := v("W"), v("Ws"), v("X"), v("Xs"), v("Y"), v("Ys"), v("Z"), v("Zs")
		add(
			Atom("maplist").Of(goal, Cons(w, ws), Cons(x, xs), Cons(y, ys), Cons(z, zs)),
			comma(call(goal, w, x, y, z), Atom("maplist").Of(goal, ws, xs, ys, zs)),
		)
	}

	// foldl(Goal, [], V0, V0).
	// foldl(Goal, [X|Xs], V0, V) :- call(Goal, X, V0, V1), foldl(Goal, Xs, V1, V).
	{
		goal, v0 := v("Goal"), v("V0")
		add(Atom("foldl").Of(goal, EmptyList, v0, v0), Atom("true"))

		goal = v("Goal")
		x, xs, v0b, v1, vEnd := v("X"), v("Xs"), v("V0"), v("V1"), v("V")
		add(
			Atom("foldl").Of(goal, Cons(x, xs), v0b, vEnd),
			comma(call(goal, x, v0b, v1), Atom("foldl").Of(goal, xs, v1, vEnd)),
		)
	}

	// foldl(Goal, [], [], V0, V0).
	// foldl(Goal, [X|Xs], [Y|Ys], V0, V) :- call(Goal, X, Y, V0, V1), foldl(Goal, Xs, Ys, V1, V).
	{
		goal, v0 := v("Goal"), v("V0")
		add(Atom("foldl").Of(goal, EmptyList, EmptyList, v0, v0), Atom("true"))

		goal = v("Goal")
		x, xs, y, ys, v0b, v1, vEnd := v("X"), v("Xs"), v("Y"), v("Ys"), v("V0"), v("V1"), v("V")
		add(
			Atom("foldl").Of(goal, Cons(x, xs), Cons(y, ys), v0b, vEnd),
			comma(call(goal, x, y, v0b, v1), Atom("foldl").Of(goal, xs, ys, v1, vEnd)),
		)
	}

	// foldl(Goal, [], [], [], V0, V0).
	// foldl(Goal, [X|Xs], [Y|Ys], [Z|Zs], V0, V) :- call(Goal, X, Y, Z, V0, V1), foldl(Goal, Xs, Ys, Zs, V1, V).
	{
		goal, v0 := v("Goal"), v("V0")
		add(Atom("foldl").Of(goal, EmptyList, EmptyList, EmptyList, v0, v0), Atom("true"))

		goal = v("Goal")
		x, xs, y, ys, z, zs, v0b, v1, vEnd := v("X"), v("Xs"), v("Y"), v("Ys"), v("Z"), v("Zs"), v("V0"), v("V1"), v("V")
		add(
			Atom("foldl").Of(goal, Cons(x, xs), Cons(y, ys), Cons(z, zs), v0b, vEnd),
			comma(call(goal, x, y, z, v0b, v1), Atom("foldl").Of(goal, xs, ys, zs, v1, vEnd)),
		)
	}

	return clauses
}
