package game

import (
	"context"
	"log"
	"time"

	"github.com/playbinho/backend/internal/config"
)

// Coordinator applies the match rules on top of the physics engine:
// slot assignment, turn alternation, scoring, win detection, sandbox
// mode, and the disconnect grace window. It owns every room's
// simulation loop and emits all outbound notifications through the
// injected Notifier, under the room lock, so each room's broadcasts
// leave in the same order its state changed.
type Coordinator struct {
	registry *Registry
	engine   *Engine
	notifier Notifier

	grace time.Duration
	sweep time.Duration
	tick  time.Duration
}

func NewCoordinator(registry *Registry, engine *Engine, notifier Notifier, cfg *config.Config) *Coordinator {
	return &Coordinator{
		registry: registry,
		engine:   engine,
		notifier: notifier,
		grace:    time.Duration(cfg.DisconnectGraceSeconds) * time.Second,
		sweep:    time.Duration(cfg.GraceSweepSeconds) * time.Second,
		tick:     PhysicsTick,
	}
}

// HandleJoin assigns a conn to a slot in the room, creating the room on
// first join. A conn that already holds a slot (reconnect inside the
// grace window) keeps its slot and identity; only the name refreshes.
// A full room answers with a null player number.
func (c *Coordinator) HandleJoin(code, connID, name string) {
	room := c.registry.CreateOrGet(code)

	room.mu.Lock()
	defer room.mu.Unlock()

	if num := room.slotOf(connID); num != 0 {
		room.Slots[num-1].Name = name
		room.clearGrace(connID)
		log.Printf("[ROOM] %s reconnected to room %s as player %d", connID, code, num)
		c.notifier.Send(connID, joinedPayload(connID, num, room.CurrentTurn, room.playerNames()))
		c.notifier.Broadcast(code, turnUpdatePayload(room.CurrentTurn, room.playerNames()))
		c.notifier.Send(connID, ballMovePayload(room.Ball.Position))
		return
	}

	num := room.assignSlot(connID, name)
	if num == 0 {
		log.Printf("[ROOM] Room %s full, rejecting %s", code, connID)
		c.notifier.Send(connID, joinedPayload(connID, nil, nil, map[int]string{}))
		return
	}
	room.LastActivity = time.Now()
	log.Printf("[ROOM] %s joined room %s as player %d (%s)", connID, code, num, name)

	becameFull := room.SandboxMode && room.occupiedCount() == 2
	if becameFull {
		// A practice session becomes a real match: fresh score, ball
		// centered, player 1 to shoot. Any practice loop is cancelled.
		room.SandboxMode = false
		room.Ball.Running = false
		room.resetBall()
		room.Score = map[int]int{1: 0, 2: 0}
		room.CurrentTurn = 1
		room.Phase = PhaseIdle
	}

	c.notifier.Send(connID, joinedPayload(connID, num, room.CurrentTurn, room.playerNames()))
	if becameFull {
		c.notifier.Broadcast(code, bothPlayersPresentPayload(room.playerNames(), room.CurrentTurn, room.Ball.Position, room.scoreCopy()))
	}
	c.notifier.Broadcast(code, turnUpdatePayload(room.CurrentTurn, room.playerNames()))
	c.notifier.Send(connID, ballMovePayload(room.Ball.Position))
}

// HandleShot starts the room's simulation loop with the submitted
// velocity. Out-of-turn shots (outside sandbox mode), shots while a
// simulation is running, and shots after game over are silently
// ignored.
func (c *Coordinator) HandleShot(code, connID string, velocity Vec2) {
	room, ok := c.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	num := room.slotOf(connID)
	if num == 0 || room.Phase == PhaseGameOver {
		room.mu.Unlock()
		return
	}
	if room.Ball.Running || room.Phase == PhaseSimulating {
		room.mu.Unlock()
		return
	}
	if !room.SandboxMode && num != room.CurrentTurn {
		room.mu.Unlock()
		return
	}

	room.Ball.Velocity = ClampShotVelocity(velocity)
	room.Ball.Running = true
	room.Phase = PhaseSimulating
	room.LastActivity = time.Now()
	room.mu.Unlock()

	go c.runSimulation(room)
}

// runSimulation drives the physics engine at the fixed tick rate until
// the ball stops or a goal is scored. Clearing Ball.Running from any
// other code path cancels the loop on its next tick.
func (c *Coordinator) runSimulation(room *Room) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for range ticker.C {
		room.mu.Lock()
		if !room.Ball.Running {
			room.mu.Unlock()
			return
		}

		ev := c.engine.Step(&room.Ball)
		switch ev.Kind {
		case TickNone:
			c.notifier.Broadcast(room.Code, ballMovePayload(room.Ball.Position))
			room.mu.Unlock()

		case TickStopped:
			c.notifier.Broadcast(room.Code, ballMovePayload(room.Ball.Position))
			room.Ball.Running = false
			room.Phase = PhaseIdle
			if !room.SandboxMode {
				// Turn alternates strictly on every completed shot.
				room.switchTurn()
				c.notifier.Broadcast(room.Code, turnUpdatePayload(room.CurrentTurn, room.playerNames()))
			}
			room.mu.Unlock()
			return

		case TickGoal:
			if room.SandboxMode {
				// A practice goal is purely a reset.
				room.resetBall()
				room.Ball.Running = false
				room.Phase = PhaseIdle
				c.notifier.Broadcast(room.Code, practiceGoalPayload(room.Ball.Position))
				c.notifier.Broadcast(room.Code, ballMovePayload(room.Ball.Position))
				room.mu.Unlock()
				return
			}

			room.Phase = PhaseRoundEnd
			room.Score[ev.ScoringPlayer]++
			log.Printf("[MATCH] Goal by player %d in room %s (%d-%d)",
				ev.ScoringPlayer, room.Code, room.Score[1], room.Score[2])

			if room.Score[ev.ScoringPlayer] >= WinningScore {
				room.Ball.Running = false
				room.Phase = PhaseGameOver
				c.notifier.Broadcast(room.Code, gameOverPayload(ev.ScoringPlayer, room.scoreCopy(), room.playerNames()))
				room.mu.Unlock()
				return
			}

			room.resetBall()
			room.Ball.Running = false
			// The conceding player shoots next.
			if ev.ScoringPlayer == 1 {
				room.CurrentTurn = 2
			} else {
				room.CurrentTurn = 1
			}
			room.Phase = PhaseIdle
			c.notifier.Broadcast(room.Code, goalPayload(ev.ScoringPlayer, room.scoreCopy(), room.Ball.Position, room.playerNames()))
			c.notifier.Broadcast(room.Code, ballMovePayload(room.Ball.Position))
			c.notifier.Broadcast(room.Code, turnUpdatePayload(room.CurrentTurn, room.playerNames()))
			c.notifier.Broadcast(room.Code, scoreUpdatePayload(room.scoreCopy(), room.playerNames()))
			room.mu.Unlock()
			return
		}
	}
}

// HandleLeave starts the disconnect grace window for a conn's slot.
// The slot stays occupied until the window elapses without a rejoin.
func (c *Coordinator) HandleLeave(code, connID string) {
	room, ok := c.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	num := room.slotOf(connID)
	if num == 0 {
		room.mu.Unlock()
		return
	}
	if _, pending := room.Disconnected[connID]; pending {
		room.mu.Unlock()
		return
	}

	room.Disconnected[connID] = time.Now()
	room.graceTimers[connID] = time.AfterFunc(c.grace, func() {
		c.expireGrace(code, connID)
	})
	graceSeconds := int(c.grace / time.Second)
	log.Printf("[GRACE] Player %d left room %s, holding slot for %ds", num, code, graceSeconds)
	c.notifier.Broadcast(code, playerDisconnectedPayload(num, graceSeconds, room.playerNames()))
	room.mu.Unlock()
}

// HandleDisconnect applies the grace-period release to every room the
// conn occupies.
func (c *Coordinator) HandleDisconnect(connID string) {
	for _, room := range c.registry.Snapshot() {
		room.mu.Lock()
		member := room.slotOf(connID) != 0
		room.mu.Unlock()
		if member {
			c.HandleLeave(room.Code, connID)
		}
	}
}

// expireGrace vacates a slot whose grace window elapsed without a
// rejoin. Dropping from two players to one re-enters sandbox mode; an
// emptied room is destroyed.
func (c *Coordinator) expireGrace(code, connID string) {
	room, ok := c.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	if _, pending := room.Disconnected[connID]; !pending {
		// Reconnected in time.
		room.mu.Unlock()
		return
	}

	wasTwo := room.occupiedCount() == 2
	room.vacateSlot(connID)
	log.Printf("[GRACE] Window elapsed for %s in room %s, slot vacated", connID, code)

	if wasTwo && room.occupiedCount() == 1 {
		room.SandboxMode = true
		c.notifier.Broadcast(code, opponentLeftPayload(room.playerNames()))
	}
	empty := room.empty()
	room.mu.Unlock()

	if empty {
		c.registry.DestroyIfEmpty(code)
	}
}

// HandleRestart resets score, ball and turn. The source accepts a
// restart in any phase; after game over it is the way back to Idle.
func (c *Coordinator) HandleRestart(code string) {
	room, ok := c.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	room.Ball.Running = false
	room.Score = map[int]int{1: 0, 2: 0}
	room.resetBall()
	room.CurrentTurn = 1
	room.Phase = PhaseIdle
	room.LastActivity = time.Now()
	log.Printf("[MATCH] Room %s restarted", code)
	c.notifier.Broadcast(code, scoreUpdatePayload(room.scoreCopy(), room.playerNames()))
	c.notifier.Broadcast(code, ballMovePayload(room.Ball.Position))
	c.notifier.Broadcast(code, turnUpdatePayload(room.CurrentTurn, room.playerNames()))
	c.notifier.Broadcast(code, gameRestartedPayload())
	room.mu.Unlock()
}

// RoomState returns a snapshot payload for a room, for the get_state
// message and the HTTP surface.
func (c *Coordinator) RoomState(code string) (map[string]interface{}, bool) {
	room, ok := c.registry.Get(code)
	if !ok {
		return nil, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	return map[string]interface{}{
		"type":         "room_state",
		"room_code":    room.Code,
		"player_names": room.playerNames(),
		"current_turn": room.CurrentTurn,
		"score":        room.scoreCopy(),
		"ball_pos":     map[string]float64{"x": room.Ball.Position.X, "y": room.Ball.Position.Y},
		"sandbox_mode": room.SandboxMode,
		"phase":        room.Phase,
	}, true
}

// StartGraceSweeper runs the periodic backstop that collects overdue
// grace entries, independent of the per-entry timers.
func (c *Coordinator) StartGraceSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.sweep)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweepGrace()
			}
		}
	}()
}

func (c *Coordinator) sweepGrace() {
	now := time.Now()
	for _, room := range c.registry.Snapshot() {
		room.mu.Lock()
		var overdue []string
		for connID, since := range room.Disconnected {
			if now.Sub(since) >= c.grace {
				overdue = append(overdue, connID)
			}
		}
		room.mu.Unlock()

		for _, connID := range overdue {
			c.expireGrace(room.Code, connID)
		}
	}
}
