package game

import "math"

// Ball is a room's single simulated body. Running is true while a
// physics loop is advancing it; at most one loop per room exists at a
// time.
type Ball struct {
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
	Running  bool `json:"-"`
}

// TickEventKind classifies the outcome of one physics tick.
type TickEventKind int

const (
	TickNone TickEventKind = iota
	TickStopped
	TickGoal
)

// TickEvent is the engine's report for a single tick. ScoringPlayer is
// 1 or 2 and only meaningful when Kind is TickGoal.
type TickEvent struct {
	Kind          TickEventKind
	ScoringPlayer int
}

// Engine advances a ball by fixed timesteps against static field
// geometry. It owns no clock; the session coordinator drives it once
// per tick. It holds no mutable state, so one engine serves all rooms.
type Engine struct {
	Field *Field
}

func NewEngine(field *Field) *Engine {
	return &Engine{Field: field}
}

// Step advances the ball by one tick. Resolution order is fixed and
// load-bearing: integrate, goal test, pegs, walls, friction, stop
// check. The goal test runs before wall clipping so a ball exiting
// through the mouth is never bounced off the end wall first; a goal
// short-circuits the rest of the tick.
func (e *Engine) Step(ball *Ball) TickEvent {
	ball.Position = ball.Position.Plus(ball.Velocity)

	if ball.Position.Y-BallRadius <= 0 && insideGoalMouth(ball.Position.X) {
		return TickEvent{Kind: TickGoal, ScoringPlayer: 1}
	}
	if ball.Position.Y+BallRadius >= FieldHeight && insideGoalMouth(ball.Position.X) {
		return TickEvent{Kind: TickGoal, ScoringPlayer: 2}
	}

	// Pegs resolve in slice order; overlapping several in one tick is
	// not physically exact but keeps the result deterministic.
	for _, peg := range e.Field.Pegs {
		if !CirclesOverlap(ball.Position, BallRadius, peg.Position, PegRadius) {
			continue
		}
		n := ball.Position.Minus(peg.Position).Normalize()
		// Place the ball just outside contact distance so the same peg
		// does not re-trigger next tick.
		ball.Position = peg.Position.Plus(n.Times(BallRadius + PegRadius + 0.1))
		ball.Velocity = ball.Velocity.Reflect(n).Times(PegDamping)
	}

	if ball.Position.X-BallRadius < 0 {
		ball.Position.X = BallRadius
		ball.Velocity.X = -ball.Velocity.X
	}
	if ball.Position.X+BallRadius > FieldWidth {
		ball.Position.X = FieldWidth - BallRadius
		ball.Velocity.X = -ball.Velocity.X
	}
	// Top/bottom walls only exist outside the goal mouth; inside it the
	// ball passes through for the goal test on a later tick.
	if ball.Position.Y-BallRadius < 0 && !insideGoalMouth(ball.Position.X) {
		ball.Position.Y = BallRadius
		ball.Velocity.Y = -ball.Velocity.Y
	}
	if ball.Position.Y+BallRadius > FieldHeight && !insideGoalMouth(ball.Position.X) {
		ball.Position.Y = FieldHeight - BallRadius
		ball.Velocity.Y = -ball.Velocity.Y
	}

	ball.Velocity = ball.Velocity.Times(Friction)

	if math.Abs(ball.Velocity.X) < MinVelocity && math.Abs(ball.Velocity.Y) < MinVelocity {
		ball.Velocity = Vec2{}
		return TickEvent{Kind: TickStopped}
	}

	return TickEvent{Kind: TickNone}
}

// ClampShotVelocity limits a client-submitted shot to MaxShotSpeed,
// preserving direction. Pathologically fast inputs would tunnel through
// pegs and walls.
func ClampShotVelocity(v Vec2) Vec2 {
	m := v.Magnitude()
	if m <= MaxShotSpeed {
		return v
	}
	return v.Normalize().Times(MaxShotSpeed)
}
