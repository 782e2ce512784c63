package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

// SetRedisClient wires the optional Redis mirror. When unset, every
// mirror publish is a no-op and rooms work purely in-process.
func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// mirrorRoomEvent publishes a broadcast payload to the room_events
// channel so external consumers (spectator feeds, ops tooling) can
// observe rooms without joining them. Best effort: failures are
// logged and never block gameplay.
func mirrorRoomEvent(roomCode string, event []byte) {
	if rdbClient == nil {
		return
	}

	envelope, err := json.Marshal(map[string]interface{}{
		"room_code": roomCode,
		"event":     json.RawMessage(event),
	})
	if err != nil {
		log.Printf("[WS] Error marshaling room event mirror: %v", err)
		return
	}

	if err := rdbClient.Publish(context.Background(), "room_events", envelope).Err(); err != nil {
		log.Printf("[WS] Error publishing room event mirror: %v", err)
	}
}
