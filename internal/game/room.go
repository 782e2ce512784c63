package game

import (
	"sync"
	"time"
)

// Phase is a room's position in the match state machine.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseSimulating Phase = "SIMULATING"
	PhaseRoundEnd   Phase = "ROUND_END"
	PhaseGameOver   Phase = "GAME_OVER"
)

// PlayerSlot is one of a room's two player positions. A slot is
// occupied while ConnID is non-empty; the conn may still be in its
// disconnect grace window.
type PlayerSlot struct {
	ConnID string `json:"-"`
	Name   string `json:"name"`
}

// Room is an isolated two-player match or practice session. All fields
// are guarded by mu; the coordinator and registry take the lock for
// every mutation so a join and a physics tick never interleave.
type Room struct {
	Code        string
	Slots       [2]PlayerSlot
	CurrentTurn int         // 1 or 2
	Score       map[int]int // player number -> goals
	Ball        Ball
	Phase       Phase
	SandboxMode bool

	// Disconnected tracks conns whose slot is held open for
	// reconnection, keyed by conn id with the disconnect time. An
	// entry exists only while the conn still occupies a slot.
	Disconnected map[string]time.Time
	graceTimers  map[string]*time.Timer

	CreatedAt    time.Time
	LastActivity time.Time

	mu sync.Mutex
}

func newRoom(code string) *Room {
	now := time.Now()
	return &Room{
		Code:         code,
		CurrentTurn:  1,
		Score:        map[int]int{1: 0, 2: 0},
		Ball:         Ball{Position: ballCenter()},
		Phase:        PhaseIdle,
		SandboxMode:  true,
		Disconnected: make(map[string]time.Time),
		graceTimers:  make(map[string]*time.Timer),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// === helpers below assume r.mu is held by the caller ===

// slotOf returns the 1-based player number for a conn, or 0 if the
// conn occupies no slot.
func (r *Room) slotOf(connID string) int {
	for i, s := range r.Slots {
		if s.ConnID != "" && s.ConnID == connID {
			return i + 1
		}
	}
	return 0
}

func (r *Room) occupiedCount() int {
	n := 0
	for _, s := range r.Slots {
		if s.ConnID != "" {
			n++
		}
	}
	return n
}

// assignSlot places a conn in the lowest free slot and returns its
// player number, or 0 if both slots are taken.
func (r *Room) assignSlot(connID, name string) int {
	for i := range r.Slots {
		if r.Slots[i].ConnID == "" {
			r.Slots[i] = PlayerSlot{ConnID: connID, Name: name}
			return i + 1
		}
	}
	return 0
}

// vacateSlot frees the slot held by connID and drops any grace entry.
func (r *Room) vacateSlot(connID string) {
	for i := range r.Slots {
		if r.Slots[i].ConnID == connID {
			r.Slots[i] = PlayerSlot{}
		}
	}
	r.clearGrace(connID)
}

// clearGrace removes the grace entry and stops its timer, keeping the
// bookkeeping consistent with slot occupancy.
func (r *Room) clearGrace(connID string) {
	delete(r.Disconnected, connID)
	if t, ok := r.graceTimers[connID]; ok {
		t.Stop()
		delete(r.graceTimers, connID)
	}
}

func (r *Room) switchTurn() {
	if r.CurrentTurn == 1 {
		r.CurrentTurn = 2
	} else {
		r.CurrentTurn = 1
	}
	r.LastActivity = time.Now()
}

func (r *Room) resetBall() {
	r.Ball.Position = ballCenter()
	r.Ball.Velocity = Vec2{}
}

// playerNames returns a copy safe to hand to the transport layer.
func (r *Room) playerNames() map[int]string {
	return map[int]string{1: r.Slots[0].Name, 2: r.Slots[1].Name}
}

func (r *Room) scoreCopy() map[int]int {
	return map[int]int{1: r.Score[1], 2: r.Score[2]}
}

// empty reports whether the room can be destroyed: both slots free and
// no reconnect pending.
func (r *Room) empty() bool {
	return r.occupiedCount() == 0 && len(r.Disconnected) == 0
}
