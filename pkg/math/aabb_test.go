package math

import "testing"

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, -2, 3}
	b := Vec3{-1, 2, 3}
	if got := a.Min(b); got != (Vec3{-1, -2, 3}) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(b); got != (Vec3{1, 2, 3}) {
		t.Errorf("Max: got %v", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if got != (Vec3{0, 0, 1}) {
		t.Errorf("Vec3.Cross() = %v, want (0, 0, 1)", got)
	}
}

func TestEmptyAABB(t *testing.T) {
	b := EmptyAABB()
	if !b.IsEmpty() {
		t.Error("EmptyAABB should be empty")
	}
	if b.Min.X != 1e38 || b.Max.X != -1e38 {
		t.Errorf("unexpected sentinels: %v", b)
	}
}

func extendAll(points []Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

func TestAABBExtend(t *testing.T) {
	b := extendAll([]Vec3{{1, 5, -3}, {-2, 0, 4}, {0, 1, 0}})
	if b.Min != (Vec3{-2, 0, -3}) || b.Max != (Vec3{1, 5, 4}) {
		t.Errorf("got %v", b)
	}
	if b.IsEmpty() {
		t.Error("box with points should not be empty")
	}
}

func TestAABBCornersRoundTrip(t *testing.T) {
	b := AABB{Min: Vec3{-1, -2, -3}, Max: Vec3{1, 2, 3}}
	corners := b.Corners()
	if got := extendAll(corners[:]); got != b {
		t.Errorf("corners rebuild %v, want %v", got, b)
	}
}
