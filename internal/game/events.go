package game

// Notifier delivers the core's outbound notifications. The WebSocket
// hub implements it in production; tests record the calls. The
// coordinator invokes it under the owning room's lock, so per-room
// delivery order always matches state-transition order.
type Notifier interface {
	// Broadcast sends a payload to every member of a room.
	Broadcast(roomCode string, payload map[string]interface{})
	// Send unicasts a payload to one connection.
	Send(connID string, payload map[string]interface{})
}

// Outbound payload builders. Shapes mirror the client protocol; the
// "type" key routes the message on the other end.

func joinedPayload(connID string, playerNumber interface{}, currentTurn interface{}, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":          "joined",
		"connection_id": connID,
		"player_number": playerNumber,
		"current_turn":  currentTurn,
		"player_names":  names,
	}
}

func turnUpdatePayload(currentTurn int, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":         "turn_update",
		"current_turn": currentTurn,
		"player_names": names,
	}
}

func scoreUpdatePayload(score map[int]int, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":         "score_update",
		"score":        score,
		"player_names": names,
	}
}

func ballMovePayload(pos Vec2) map[string]interface{} {
	return map[string]interface{}{
		"type":     "ball_move",
		"ball_pos": map[string]float64{"x": pos.X, "y": pos.Y},
	}
}

func goalPayload(scoringPlayer int, score map[int]int, resetPos Vec2, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":           "goal",
		"scoring_player": scoringPlayer,
		"score":          score,
		"ball_pos":       map[string]float64{"x": resetPos.X, "y": resetPos.Y},
		"player_names":   names,
	}
}

func practiceGoalPayload(resetPos Vec2) map[string]interface{} {
	return map[string]interface{}{
		"type":     "practice_goal",
		"ball_pos": map[string]float64{"x": resetPos.X, "y": resetPos.Y},
	}
}

func bothPlayersPresentPayload(names map[int]string, currentTurn int, resetPos Vec2, score map[int]int) map[string]interface{} {
	return map[string]interface{}{
		"type":         "both_players_present",
		"player_names": names,
		"current_turn": currentTurn,
		"ball_pos":     map[string]float64{"x": resetPos.X, "y": resetPos.Y},
		"score":        score,
	}
}

func gameOverPayload(winner int, score map[int]int, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":         "game_over",
		"winner":       winner,
		"score":        score,
		"player_names": names,
	}
}

func gameRestartedPayload() map[string]interface{} {
	return map[string]interface{}{
		"type": "game_restarted",
	}
}

func playerDisconnectedPayload(playerNumber int, graceSeconds int, names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":          "player_disconnected",
		"player_number": playerNumber,
		"grace_seconds": graceSeconds,
		"player_names":  names,
	}
}

func opponentLeftPayload(names map[int]string) map[string]interface{} {
	return map[string]interface{}{
		"type":         "opponent_left",
		"player_names": names,
	}
}
