package wyrm

import (
	"strconv"
	"strings"
)

// registerAtomBuiltins installs the atom/character/number conversion
// predicates of spec.md §4.13.
func registerAtomBuiltins(e *Engine) {
	def(e, "atom_chars", 2, det(biAtomChars2))
	def(e, "atom_codes", 2, det(biAtomCodes2))
	def(e, "char_code", 2, det(biCharCode2))
	def(e, "number_chars", 2, det(biNumberChars2))
	def(e, "number_codes", 2, det(biNumberCodes2))
	def(e, "atom_length", 2, det(biAtomLength2))
	def(e, "atom_concat", 3, biAtomConcat3)
	def(e, "atom_number", 2, det(biAtomNumber2))
	def(e, "upcase_atom", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[1], Atom(strings.ToUpper(string(mustAtom(g.Args[0])))))
	}))
	def(e, "downcase_atom", 2, det(func(e *Engine, g Compound) bool {
		return unify(e.trail, g.Args[1], Atom(strings.ToLower(string(mustAtom(g.Args[0])))))
	}))
	def(e, "sub_atom", 5, biSubAtom5)
}

func mustAtom(t Term) Atom {
	t = dereference(t)
	if isVariable(t) {
		throwBall(instantiationError(nil))
	}
	a, ok := t.(Atom)
	if !ok {
		throwBall(typeError("atom", t, nil))
	}
	return a
}

func atomText(t Term) (string, bool) {
	switch x := dereference(t).(type) {
	case Atom:
		return string(x), true
	case Integer:
		return strconv.FormatInt(int64(x), 10), true
	case Float:
		return x.String(), true
	case Decimal:
		return x.Decimal.String(), true
	default:
		return "", false
	}
}

func charsToString(t Term) (string, bool) {
	items, ok := ListToSlice(t)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for _, item := range items {
		a, ok := dereference(item).(Atom)
		if !ok || len([]rune(string(a))) != 1 {
			return "", false
		}
		sb.WriteString(string(a))
	}
	return sb.String(), true
}

func stringToChars(s string) Term {
	runes := []rune(s)
	items := make([]Term, len(runes))
	for i, r := range runes {
		items[i] = Atom(string(r))
	}
	return ListFromSlice(items)
}

func codesToString(t Term) (string, bool) {
	items, ok := ListToSlice(t)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for _, item := range items {
		code, ok := dereference(item).(Integer)
		if !ok {
			return "", false
		}
		sb.WriteRune(rune(code))
	}
	return sb.String(), true
}

func stringToCodes(s string) Term {
	runes := []rune(s)
	items := make([]Term, len(runes))
	for i, r := range runes {
		items[i] = Integer(r)
	}
	return ListFromSlice(items)
}

func biAtomChars2(e *Engine, g Compound) bool {
	if s, ok := atomText(g.Args[0]); ok {
		return unify(e.trail, g.Args[1], stringToChars(s))
	}
	s, ok := charsToString(g.Args[1])
	if !ok {
		throwBall(instantiationError(nil))
	}
	return unify(e.trail, g.Args[0], Atom(s))
}

func biAtomCodes2(e *Engine, g Compound) bool {
	if s, ok := atomText(g.Args[0]); ok {
		return unify(e.trail, g.Args[1], stringToCodes(s))
	}
	s, ok := codesToString(g.Args[1])
	if !ok {
		throwBall(instantiationError(nil))
	}
	return unify(e.trail, g.Args[0], Atom(s))
}

func biCharCode2(e *Engine, g Compound) bool {
	a := dereference(g.Args[0])
	if at, ok := a.(Atom); ok {
		r := []rune(string(at))
		if len(r) != 1 {
			throwBall(typeError("character", a, nil))
		}
		return unify(e.trail, g.Args[1], Integer(r[0]))
	}
	c := dereference(g.Args[1])
	code, ok := c.(Integer)
	if !ok {
		throwBall(instantiationError(nil))
	}
	return unify(e.trail, g.Args[0], Atom(string(rune(code))))
}

func parseNumber(s string) (Term, bool) {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return Integer(n), true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return NewFloat(f), true
	}
	return nil, false
}

func biNumberChars2(e *Engine, g Compound) bool {
	n := dereference(g.Args[0])
	if IsNumber(n) {
		s, _ := atomText(n)
		return unify(e.trail, g.Args[1], stringToChars(s))
	}
	s, ok := charsToString(g.Args[1])
	if !ok {
		throwBall(instantiationError(nil))
	}
	num, ok := parseNumber(s)
	if !ok {
		throwBall(syntaxErrorTerm("illegal_number", nil))
	}
	return unify(e.trail, g.Args[0], num)
}

func biNumberCodes2(e *Engine, g Compound) bool {
	n := dereference(g.Args[0])
	if IsNumber(n) {
		s, _ := atomText(n)
		return unify(e.trail, g.Args[1], stringToCodes(s))
	}
	s, ok := codesToString(g.Args[1])
	if !ok {
		throwBall(instantiationError(nil))
	}
	num, ok := parseNumber(s)
	if !ok {
		throwBall(syntaxErrorTerm("illegal_number", nil))
	}
	return unify(e.trail, g.Args[0], num)
}

func biAtomLength2(e *Engine, g Compound) bool {
	s, ok := atomText(g.Args[0])
	if !ok {
		throwBall(typeError("atomic", g.Args[0], nil))
	}
	return unify(e.trail, g.Args[1], Integer(len([]rune(s))))
}

func biAtomNumber2(e *Engine, g Compound) bool {
	a := dereference(g.Args[0])
	if at, ok := a.(Atom); ok {
		n, ok := parseNumber(string(at))
		if !ok {
			return false
		}
		return unify(e.trail, g.Args[1], n)
	}
	n := dereference(g.Args[1])
	if !IsNumber(n) {
		throwBall(instantiationError(nil))
	}
	s, _ := atomText(n)
	return unify(e.trail, g.Args[0], Atom(s))
}

// biAtomConcat3 implements atom_concat/3 in both its deterministic mode
// (first two arguments bound) and its nondeterministic splitting mode
// (third argument bound, first two unbound).
func biAtomConcat3(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	a, aok := atomText(goal.Args[0])
	b, bok := atomText(goal.Args[1])
	mark := e.trail.mark()
	if aok && bok {
		if unify(e.trail, goal.Args[2], Atom(a+b)) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		return false
	}

	whole, ok := atomText(goal.Args[2])
	if !ok {
		throwBall(instantiationError(nil))
	}
	runes := []rune(whole)
	for i := 0; i <= len(runes); i++ {
		last := i == len(runes)
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		if unify(e.trail, goal.Args[0], Atom(string(runes[:i]))) && unify(e.trail, goal.Args[1], Atom(string(runes[i:]))) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !last {
			if !guard.alive() {
				return false
			}
			guard.release()
		}
	}
	return false
}

// biSubAtom5 implements sub_atom/5 by enumerating every (Before,
// Length, After) split of Atom consistent with any already-bound
// arguments.
func biSubAtom5(e *Engine, barrier CPMark, goal Compound, k Cont) bool {
	whole, ok := atomText(goal.Args[0])
	if !ok {
		throwBall(instantiationError(nil))
	}
	runes := []rune(whole)
	n := len(runes)
	mark := e.trail.mark()

	type split struct{ before, length int }
	var splits []split
	for b := 0; b <= n; b++ {
		for l := 0; b+l <= n; l++ {
			splits = append(splits, split{before: b, length: l})
		}
	}

	for i, s := range splits {
		last := i == len(splits)-1
		var guard choiceGuard
		if !last {
			guard = newGuard(e.cps, mark)
		}
		after := n - s.before - s.length
		sub := string(runes[s.before : s.before+s.length])
		if unify(e.trail, goal.Args[1], Integer(s.before)) &&
			unify(e.trail, goal.Args[2], Integer(s.length)) &&
			unify(e.trail, goal.Args[3], Integer(after)) &&
			unify(e.trail, goal.Args[4], Atom(sub)) {
			if k() {
				return true
			}
		}
		e.trail.rewindTo(mark)
		if !last {
			if !guard.alive() {
				return false
			}
			guard.release()
		}
	}
	return false
}
