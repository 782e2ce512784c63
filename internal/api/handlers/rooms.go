package handlers

import (
	"crypto/rand"
	"log"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playbinho/backend/internal/game"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomCodeLength = 4

// mintRoomCode generates a short shareable code that is not currently
// in use. Collisions are retried; with a 36^4 space and a handful of
// live rooms a retry is already rare.
func mintRoomCode(registry *game.Registry) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := make([]byte, roomCodeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
			if err != nil {
				return "", err
			}
			code[i] = roomCodeAlphabet[n.Int64()]
		}
		if !registry.Has(string(code)) {
			return string(code), nil
		}
	}
	return "", errTooManyCollisions
}

type roomCodeError string

func (e roomCodeError) Error() string { return string(e) }

const errTooManyCollisions = roomCodeError("could not mint an unused room code")

// CreateRoom mints a fresh room and returns its shareable code. The
// room itself is created lazily when the first player joins over the
// WebSocket, so an abandoned code costs nothing.
func CreateRoom(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, err := mintRoomCode(registry)
		if err != nil {
			log.Printf("[API] Room code mint failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"room_code": code,
		})
	}
}

// RoomStats reports how many rooms are live right now.
func RoomStats(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"active_rooms": registry.ActiveRoomCount(),
		})
	}
}
