package wyrm

// Clause is a stored head/body pair. Facts are stored with Body set to
// the atom true, so resolution never has to special-case a missing
// body.
type Clause struct {
	Head Term
	Body Term
}

// NewClause builds a rule head :- body.
func NewClause(head, body Term) *Clause {
	return &Clause{Head: head, Body: body}
}

// NewFact builds a clause with an empty body.
func NewFact(head Term) *Clause {
	return &Clause{Head: head, Body: Atom("true")}
}

// indicatorOf returns the functor/arity of a clause head.
func indicatorOf(head Term) FunctorTag {
	switch h := dereference(head).(type) {
	case Atom:
		return h.Indicator()
	case Compound:
		return h.Indicator()
	default:
		return FunctorTag{}
	}
}

// firstArgKey classifies the first argument of a term for first-argument
// indexing (spec.md §4.5). Variables and absent arguments index to the
// wildcard bucket, meaning "compatible with every clause".
type firstArgKey struct {
	kind byte // 'v' wildcard, 'a' atom, 'i' integer, 'c' compound, 'o' other
	text string
	n    int
}

var wildcardKey = firstArgKey{kind: 'v'}

func firstArgKeyOf(goal Term) firstArgKey {
	c, ok := dereference(goal).(Compound)
	if !ok || len(c.Args) == 0 {
		return wildcardKey
	}
	return firstArgKeyOfTerm(c.Args[0])
}

func firstArgKeyOfTerm(t Term) firstArgKey {
	switch x := dereference(t).(type) {
	case *Variable:
		return wildcardKey
	case Atom:
		return firstArgKey{kind: 'a', text: string(x)}
	case Integer:
		return firstArgKey{kind: 'i', n: int(x)}
	case Compound:
		return firstArgKey{kind: 'c', text: string(x.Functor), n: len(x.Args)}
	default:
		return firstArgKey{kind: 'o', text: text(t)}
	}
}

// clauseFirstArgKey mirrors firstArgKeyOf but for a clause head, used to
// build the index.
func clauseFirstArgKey(head Term) firstArgKey {
	c, ok := dereference(head).(Compound)
	if !ok || len(c.Args) == 0 {
		return wildcardKey
	}
	return firstArgKeyOfTerm(c.Args[0])
}

// compatible reports whether a goal's first-argument bucket could
// possibly unify with a clause's first-argument bucket. It is a
// conservative (never-false-negative) filter: wildcards are always
// compatible, since indexing is an optimization, not a semantic
// filter.
func (g firstArgKey) compatible(c firstArgKey) bool {
	if g.kind == 'v' || c.kind == 'v' {
		return true
	}
	if g.kind != c.kind {
		return false
	}
	switch g.kind {
	case 'a', 'o':
		return g.text == c.text
	case 'i':
		return g.n == c.n
	case 'c':
		return g.text == c.text && g.n == c.n
	default:
		return true
	}
}
