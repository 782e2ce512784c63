package game

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeZeroVector(t *testing.T) {
	v := Vec2{}.Normalize()
	if !v.IsZero() {
		t.Errorf("zero vector should normalize to zero, got (%v, %v)", v.X, v.Y)
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	v := NewVec2(3, 4).Normalize()
	if !almostEqual(v.Magnitude(), 1) {
		t.Errorf("normalized magnitude = %v, want 1", v.Magnitude())
	}
	if !almostEqual(v.X, 0.6) || !almostEqual(v.Y, 0.8) {
		t.Errorf("normalized (3,4) = (%v, %v), want (0.6, 0.8)", v.X, v.Y)
	}
}

func TestReflectOffVerticalNormal(t *testing.T) {
	// Moving down-right, bouncing off a floor whose normal points up.
	v := NewVec2(3, 4).Reflect(NewVec2(0, -1))
	if !almostEqual(v.X, 3) || !almostEqual(v.Y, -4) {
		t.Errorf("reflect = (%v, %v), want (3, -4)", v.X, v.Y)
	}
}

func TestReflectPreservesMagnitude(t *testing.T) {
	in := NewVec2(-7, 2)
	n := NewVec2(1, 1).Normalize()
	out := in.Reflect(n)
	if !almostEqual(in.Magnitude(), out.Magnitude()) {
		t.Errorf("reflection changed magnitude: %v -> %v", in.Magnitude(), out.Magnitude())
	}
}

func TestCirclesOverlapTangency(t *testing.T) {
	// Centers exactly radius-sum apart count as touching.
	if !CirclesOverlap(NewVec2(0, 0), 10, NewVec2(25, 0), 15) {
		t.Error("tangent circles should overlap")
	}
	if CirclesOverlap(NewVec2(0, 0), 10, NewVec2(25.01, 0), 15) {
		t.Error("separated circles should not overlap")
	}
	if !CirclesOverlap(NewVec2(0, 0), 10, NewVec2(5, 5), 15) {
		t.Error("intersecting circles should overlap")
	}
}
