package wyrm

// cloneForActivation produces a structurally identical copy of tmpl in
// which every distinct *Variable is replaced by a fresh *Variable, with
// the same template variable mapping to the same fresh variable
// wherever it recurs in tmpl. Non-variable nodes are not copied, since
// they are logically immutable once a clause template is built.
//
// The walk is iterative (an explicit work stack) rather than recursive
// so that deeply nested clause bodies cannot blow the goroutine stack;
// see spec.md §4.1 and §9.
func cloneForActivation(tmpl Term, seen map[*Variable]*Variable) Term {
	switch x := tmpl.(type) {
	case *Variable:
		if x.Ref != nil {
			// Dereference chains shouldn't appear inside frozen
			// templates, but guard anyway: clone what it points to.
			return cloneForActivation(x.Ref, seen)
		}
		if fresh, ok := seen[x]; ok {
			return fresh
		}
		fresh := NewVariable(x.Name)
		seen[x] = fresh
		return fresh
	case Compound:
		if !compoundHasVariable(x) {
			return x
		}
		return cloneCompoundIterative(x, seen)
	default:
		return tmpl
	}
}

// compoundHasVariable is a best-effort shallow-to-deep scan used to
// skip cloning ground subterms entirely. It shares the frontier logic
// with cloneCompoundIterative but only needs a boolean answer, so it
// stops at the first variable found.
func compoundHasVariable(c Compound) bool {
	type frame struct {
		args []Term
		i    int
	}
	stack := []frame{{args: c.Args}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i >= len(top.args) {
			stack = stack[:len(stack)-1]
			continue
		}
		arg := top.args[top.i]
		top.i++
		switch y := arg.(type) {
		case *Variable:
			return true
		case Compound:
			stack = append(stack, frame{args: y.Args})
		}
	}
	return false
}

// cloneCompoundIterative rebuilds c (and any compound descendant that
// contains a variable) using an explicit work stack instead of Go call
// recursion.
func cloneCompoundIterative(c Compound, seen map[*Variable]*Variable) Term {
	type pending struct {
		src  Compound
		dst  []Term
		i    int
		slot *Term // where to store the finished dst into the parent, nil for root
	}

	root := &pending{src: c, dst: make([]Term, len(c.Args))}
	stack := []*pending{root}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.i >= len(top.src.Args) {
			finished := Compound{Functor: top.src.Functor, Args: top.dst}
			stack = stack[:len(stack)-1]
			if top.slot != nil {
				*top.slot = finished
			}
			if len(stack) == 0 {
				return finished
			}
			continue
		}

		arg := top.src.Args[top.i]
		idx := top.i
		top.i++

		switch y := arg.(type) {
		case *Variable:
			if y.Ref != nil {
				top.dst[idx] = cloneForActivation(y.Ref, seen)
				continue
			}
			fresh, ok := seen[y]
			if !ok {
				fresh = NewVariable(y.Name)
				seen[y] = fresh
			}
			top.dst[idx] = fresh
		case Compound:
			if !compoundHasVariable(y) {
				top.dst[idx] = y
				continue
			}
			child := &pending{src: y, dst: make([]Term, len(y.Args))}
			slot := &top.dst[idx]
			child.slot = slot
			stack = append(stack, child)
		default:
			top.dst[idx] = arg
		}
	}

	// unreachable: the loop above always returns once the root frame
	// finishes, but keep the compiler happy.
	return c
}

// CopyTerm produces a term equal to t under ==/2 modulo variable
// identity: every variable in t is replaced with a fresh one, shared
// consistently, and the original's bindings are left untouched.
func CopyTerm(t Term) Term {
	return cloneForActivation(t, make(map[*Variable]*Variable))
}
