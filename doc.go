// Package wyrm is an embeddable Prolog engine.
//
// It reads an already-parsed clause database, compiles it into an
// internal predicate table, and executes goals by SLD-resolution with
// depth-first search, backtracking, and the cut. Clients submit a goal
// term through an [Engine] and iterate solutions with a [Query].
//
// wyrm does not parse Prolog source text. Callers construct [Term]
// values (or a higher-level reader outside this module does) and hand
// wyrm already-structured [Clause] values via [Engine.Consult].
package wyrm
