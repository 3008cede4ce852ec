package wyrm

import "testing"

func TestCPStackPushAndAlive(t *testing.T) {
	cps := newCPStack()
	tok := cps.push(choicePoint{kind: "guard"})
	if !cps.alive(tok) {
		t.Error("freshly pushed choice point should be alive")
	}
	if cps.depth() != 1 {
		t.Errorf("depth should be 1, got %d", cps.depth())
	}
}

func TestCPStackTruncateRunsCleanupInReverse(t *testing.T) {
	cps := newCPStack()
	var order []int
	mark := cps.depth()
	cps.push(choicePoint{cleanup: func() { order = append(order, 1) }})
	cps.push(choicePoint{cleanup: func() { order = append(order, 2) }})
	cps.push(choicePoint{cleanup: func() { order = append(order, 3) }})

	cps.truncateTo(mark)

	want := []int{3, 2, 1}
	for i, v := range want {
		if order[i] != v {
			t.Errorf("cleanup order: want %v, got %v", want, order)
			break
		}
	}
	if cps.depth() != mark {
		t.Errorf("stack should be truncated back to mark, got depth=%d", cps.depth())
	}
}

func TestCPStackAliveFalseAfterTruncate(t *testing.T) {
	cps := newCPStack()
	mark := cps.depth()
	tok := cps.push(choicePoint{})
	cps.truncateTo(mark)
	if cps.alive(tok) {
		t.Error("token should be dead after its frame was truncated away")
	}
}

func TestChoiceGuardReleaseAndAlive(t *testing.T) {
	cps := newCPStack()
	tr := newTrail()
	guard := newGuard(cps, tr.mark())
	if !guard.alive() {
		t.Fatal("new guard should be alive")
	}
	guard.release()
	if guard.alive() {
		t.Error("guard should not be alive after release")
	}
}

func TestChoiceGuardKilledByOuterCut(t *testing.T) {
	cps := newCPStack()
	tr := newTrail()
	barrier := cps.depth()
	guard := newGuard(cps, tr.mark())
	// Simulate a cut pruning back past the guard's own frame.
	cps.truncateTo(barrier)
	if guard.alive() {
		t.Error("guard should report dead once cut past its frame")
	}
}

func TestCPStackPopTokenIsIdempotentOnceDead(t *testing.T) {
	cps := newCPStack()
	tok := cps.push(choicePoint{})
	cps.popToken(tok)
	if cps.alive(tok) {
		t.Fatal("token should be dead after popToken")
	}
	// Popping again should be a no-op, not panic.
	cps.popToken(tok)
}
