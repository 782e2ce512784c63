package game

import "time"

// Physics and field constants. These MUST match the client-side
// constants exactly or the two simulations drift apart visually.
const (
	FieldWidth  = 420.0
	FieldHeight = 700.0
	BallRadius  = 18.0
	PegRadius   = 7.0

	Friction    = 0.96 // per-tick velocity retention
	PegDamping  = 0.5  // extra energy loss on peg hits
	MinVelocity = 0.5  // per-component stop threshold

	// GoalHalfWidth is half the goal-mouth opening, centered on the
	// field's horizontal midpoint. The mouth interval is open: a ball
	// exactly on the edge bounces instead of scoring.
	GoalHalfWidth = 36.0

	MaxShotSpeed = 40.0 // clamp on client-submitted shot velocity
	WinningScore = 3

	PhysicsTick = time.Second / 60
)

// Peg is a static field obstacle. The set is shared read-only across
// all rooms.
type Peg struct {
	Position Vec2 `json:"position"`
}

// Field holds the static geometry a physics engine simulates against.
type Field struct {
	Pegs []Peg
}

// ballCenter returns the field-center reset position.
func ballCenter() Vec2 {
	return Vec2{X: FieldWidth / 2, Y: FieldHeight / 2}
}

// NewStandardField builds the standard 20-peg field: ten pegs in the
// top half, mirrored about the horizontal midline for the bottom half.
func NewStandardField() *Field {
	top := []Vec2{
		{X: 100, Y: 70}, {X: 210, Y: 70}, {X: 320, Y: 70},
		{X: 160, Y: 50}, {X: 260, Y: 50},
		{X: 160, Y: 140}, {X: 260, Y: 140},
		{X: 100, Y: 190}, {X: 320, Y: 190}, {X: 210, Y: 220},
	}

	pegs := make([]Peg, 0, 2*len(top))
	for _, p := range top {
		pegs = append(pegs, Peg{Position: p})
	}
	for _, p := range top {
		pegs = append(pegs, Peg{Position: Vec2{X: p.X, Y: FieldHeight - p.Y}})
	}

	return &Field{Pegs: pegs}
}

// insideGoalMouth reports whether x lies strictly inside the goal-mouth
// opening.
func insideGoalMouth(x float64) bool {
	return x > FieldWidth/2-GoalHalfWidth && x < FieldWidth/2+GoalHalfWidth
}
