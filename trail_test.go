package wyrm

import "testing"

func TestTrailMarkAndRewind(t *testing.T) {
	tr := newTrail()
	v1 := NewVariable("X")
	v2 := NewVariable("Y")

	mark := tr.mark()
	bind(tr, v1, Atom("a"))
	bind(tr, v2, Atom("b"))

	if v1.Ref != Atom("a") || v2.Ref != Atom("b") {
		t.Fatal("bindings did not take effect")
	}

	tr.rewindTo(mark)

	if v1.Ref != nil || v2.Ref != nil {
		t.Error("rewindTo should have undone both bindings")
	}
	if tr.depth() != int(mark) {
		t.Errorf("trail should be truncated back to mark, depth=%d want=%d", tr.depth(), mark)
	}
}

func TestTrailCustomUndo(t *testing.T) {
	tr := newTrail()
	ran := false
	mark := tr.mark()
	tr.pushCustom(func() { ran = true })
	tr.rewindTo(mark)
	if !ran {
		t.Error("custom undo callback should have run")
	}
}

func TestTrailRewindOrderIsReversed(t *testing.T) {
	tr := newTrail()
	var order []int
	mark := tr.mark()
	tr.pushCustom(func() { order = append(order, 1) })
	tr.pushCustom(func() { order = append(order, 2) })
	tr.pushCustom(func() { order = append(order, 3) })
	tr.rewindTo(mark)

	want := []int{3, 2, 1}
	for i, v := range want {
		if order[i] != v {
			t.Errorf("undo order: want %v, got %v", want, order)
			break
		}
	}
}

func TestTrailPartialRewind(t *testing.T) {
	tr := newTrail()
	v1 := NewVariable("X")
	bind(tr, v1, Atom("a"))
	mid := tr.mark()

	v2 := NewVariable("Y")
	bind(tr, v2, Atom("b"))

	tr.rewindTo(mid)

	if v1.Ref != Atom("a") {
		t.Error("binding before mark should survive partial rewind")
	}
	if v2.Ref != nil {
		t.Error("binding after mark should be undone")
	}
}
