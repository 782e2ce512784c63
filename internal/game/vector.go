package game

import "math"

// Vec2 is an immutable 2D vector. All physics state is expressed in
// field units with y growing downward, matching the client renderer.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector. The zero vector normalizes to the
// zero vector rather than dividing by zero.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Reflect mirrors v about the unit normal n: v' = v - 2(v·n)n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	d := v.Dot(n)
	return Vec2{X: v.X - 2*d*n.X, Y: v.Y - 2*d*n.Y}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// CirclesOverlap reports whether two circles touch or overlap. Compares
// squared distances so no square root is taken; tangency counts as
// overlap.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	sum := ra + rb
	return dx*dx+dy*dy <= sum*sum
}
