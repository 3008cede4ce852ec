package wyrm

// CPMark identifies a position in the choice-point stack. Depth and
// mark are the same kind of value here: "how many choice points exist"
// doubles as "a place to truncate back to".
type CPMark int

// choicePoint is a single frame on the stack: how to undo the trail
// for this alternative, and an optional cleanup hook that must run
// exactly once, whether this frame is discarded by ordinary
// backtracking or pruned early by cut (spec.md §9 Open Question: the
// two paths share this one mechanism so neither can be implemented
// without the other).
type choicePoint struct {
	trailMark Mark
	cleanup   func()
	seq       uint64
	kind      string
}

// cpToken is a capability to check whether a previously pushed choice
// point is still live, i.e. has not been popped or truncated away.
type cpToken struct {
	idx int
	seq uint64
}

// cpStack is the engine's choice-point stack (spec.md §4.4).
type cpStack struct {
	frames  []choicePoint
	nextSeq uint64
}

func newCPStack() *cpStack {
	return &cpStack{}
}

// depth returns the current stack depth, usable as both a read of "how
// many choice points exist" and a Mark to truncate back to later.
func (s *cpStack) depth() CPMark {
	return CPMark(len(s.frames))
}

// push adds cp to the top of the stack and returns a token that can
// later be used to check whether it is still alive.
func (s *cpStack) push(cp choicePoint) cpToken {
	s.nextSeq++
	cp.seq = s.nextSeq
	s.frames = append(s.frames, cp)
	return cpToken{idx: len(s.frames) - 1, seq: cp.seq}
}

// peek returns the top frame, if any.
func (s *cpStack) peek() (choicePoint, bool) {
	if len(s.frames) == 0 {
		return choicePoint{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// alive reports whether the choice point identified by tok is still on
// the stack, i.e. has not been popped or truncated away since it was
// pushed.
func (s *cpStack) alive(tok cpToken) bool {
	return tok.idx < len(s.frames) && s.frames[tok.idx].seq == tok.seq
}

// find returns the stack index of the choice point identified by tok,
// if it is still alive.
func (s *cpStack) find(tok cpToken) (CPMark, bool) {
	if !s.alive(tok) {
		return 0, false
	}
	return CPMark(tok.idx), true
}

// truncateTo pops every frame above mark, invoking each one's cleanup
// hook exactly once, in reverse (most-recently-pushed-first) order.
// This is both how cut discards choice points and how a tok's "I have
// no more alternatives" discipline is implemented: popToken is just
// truncateTo(tok's own index).
func (s *cpStack) truncateTo(mark CPMark) {
	for i := len(s.frames) - 1; i >= int(mark); i-- {
		if cleanup := s.frames[i].cleanup; cleanup != nil {
			cleanup()
		}
	}
	s.frames = s.frames[:mark]
}

// popToken discards the choice point tok and everything pushed after
// it (there should be nothing left above it by the time a caller
// legitimately wants to move to its next alternative), running any
// cleanup hooks along the way.
func (s *cpStack) popToken(tok cpToken) {
	if !s.alive(tok) {
		return
	}
	s.truncateTo(CPMark(tok.idx))
}

// choiceGuard is a small helper wrapping the push/alive/release
// discipline used by every nondeterministic construct in this package:
// clause iteration, disjunction, and the native nondeterministic
// builtins (member/2, between/3, and friends).
type choiceGuard struct {
	cps *cpStack
	tok cpToken
}

// newGuard pushes a placeholder choice point (no cleanup) representing
// "there may be more alternatives from here" and returns a guard to
// check and release it.
func newGuard(cps *cpStack, trailMark Mark) choiceGuard {
	tok := cps.push(choicePoint{trailMark: trailMark, kind: "guard"})
	return choiceGuard{cps: cps, tok: tok}
}

// alive reports whether this guard's placeholder is still on the
// stack. It returns false once a cut (or any truncateTo reaching back
// this far) has pruned it, telling the caller to stop producing
// alternatives.
func (g choiceGuard) alive() bool {
	return g.cps.alive(g.tok)
}

// release discards the guard's own placeholder so the next alternative
// can push its own guard in its place.
func (g choiceGuard) release() {
	g.cps.popToken(g.tok)
}
