package vectorclock

import "testing"

func TestNewIsZero(t *testing.T) {
	vc := New()
	for i := 0; i < 8; i++ {
		if got := vc.Get(i); got != 0 {
			t.Errorf("New().Get(%d) = %d, want 0", i, got)
		}
	}
}

func TestSetGet(t *testing.T) {
	vc := New()
	vc.Set(0, 10)
	vc.Set(5, 20)

	if got := vc.Get(0); got != 10 {
		t.Errorf("Get(0) = %d, want 10", got)
	}
	if got := vc.Get(5); got != 20 {
		t.Errorf("Get(5) = %d, want 20", got)
	}
	if got := vc.Get(3); got != 0 {
		t.Errorf("Get(3) = %d, want 0 (unmentioned thread)", got)
	}
}

func TestIncrement(t *testing.T) {
	vc := New()
	vc.Increment(2)
	vc.Increment(2)
	if got := vc.Get(2); got != 2 {
		t.Errorf("Get(2) = %d, want 2", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := New()
	original.Set(0, 10)
	original.Set(5, 20)

	clone := original.Clone()
	clone.Set(0, 999)

	if got := original.Get(0); got != 10 {
		t.Errorf("original mutated through clone: Get(0) = %d, want 10", got)
	}
	if got := clone.Get(0); got != 999 {
		t.Errorf("clone.Get(0) = %d, want 999", got)
	}
}

func TestJoinIsPointwiseMax(t *testing.T) {
	a := New()
	a.Set(0, 10)
	a.Set(1, 30)
	a.Set(2, 20)

	b := New()
	b.Set(0, 5)
	b.Set(1, 40)
	b.Set(2, 15)
	b.Set(3, 7)

	a.Join(b)

	want := map[int]uint64{0: 10, 1: 40, 2: 20, 3: 7}
	for tid, w := range want {
		if got := a.Get(tid); got != w {
			t.Errorf("after Join, Get(%d) = %d, want %d", tid, got, w)
		}
	}
}

func TestJoinCommutativity(t *testing.T) {
	mk := func() *VectorClock {
		vc := New()
		vc.Set(0, 10)
		vc.Set(1, 30)
		vc.Set(2, 20)
		return vc
	}
	mk2 := func() *VectorClock {
		vc := New()
		vc.Set(0, 5)
		vc.Set(1, 40)
		vc.Set(2, 15)
		return vc
	}

	ab := mk()
	ab.Join(mk2())

	ba := mk2()
	ba.Join(mk())

	for tid := 0; tid < 3; tid++ {
		if ab.Get(tid) != ba.Get(tid) {
			t.Errorf("Join not commutative at tid %d: %d vs %d", tid, ab.Get(tid), ba.Get(tid))
		}
	}
}

func TestLessOrEqual(t *testing.T) {
	a := New()
	a.Set(0, 1)
	a.Set(1, 2)

	b := New()
	b.Set(0, 1)
	b.Set(1, 3)
	b.Set(2, 5)

	if !a.LessOrEqual(b) {
		t.Errorf("expected a ⊑ b")
	}
	if b.LessOrEqual(a) {
		t.Errorf("did not expect b ⊑ a")
	}
}

func TestLessOrEqualReflexive(t *testing.T) {
	a := New()
	a.Set(0, 7)
	a.Set(4, 3)
	if !a.LessOrEqual(a) {
		t.Errorf("expected a ⊑ a (reflexivity)")
	}
}

func TestLessOrEqualZeroClockAlwaysBefore(t *testing.T) {
	zero := New()
	other := New()
	other.Set(3, 100)
	if !zero.LessOrEqual(other) {
		t.Errorf("zero vector clock must be ⊑ any other clock")
	}
}

func TestCopyFromOverwritesInPlace(t *testing.T) {
	dst := New()
	dst.Set(0, 99)
	dst.Set(9, 99)

	src := New()
	src.Set(0, 1)
	src.Set(1, 2)

	dst.CopyFrom(src)

	if got := dst.Get(0); got != 1 {
		t.Errorf("Get(0) = %d, want 1", got)
	}
	if got := dst.Get(1); got != 2 {
		t.Errorf("Get(1) = %d, want 2", got)
	}
	if got := dst.Get(9); got != 0 {
		t.Errorf("Get(9) = %d, want 0 after CopyFrom truncation", got)
	}
}

func TestStringFormatsNonZeroEntries(t *testing.T) {
	vc := New()
	if got := vc.String(); got != "{}" {
		t.Errorf("String() on empty clock = %q, want \"{}\"", got)
	}
	vc.Set(1, 5)
	vc.Set(3, 9)
	got := vc.String()
	if got != "{1:5, 3:9}" {
		t.Errorf("String() = %q, want {1:5, 3:9}", got)
	}
}
