package handlers

import (
	"strings"
	"testing"

	"github.com/playbinho/backend/internal/game"
)

func TestMintRoomCodeShape(t *testing.T) {
	registry := game.NewRegistry()

	for i := 0; i < 50; i++ {
		code, err := mintRoomCode(registry)
		if err != nil {
			t.Fatalf("mint failed: %v", err)
		}
		if len(code) != roomCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), roomCodeLength)
		}
		for _, ch := range code {
			if !strings.ContainsRune(roomCodeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
	}
}

func TestMintRoomCodeAvoidsLiveRooms(t *testing.T) {
	registry := game.NewRegistry()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := mintRoomCode(registry)
		if err != nil {
			t.Fatalf("mint failed after %d codes: %v", i, err)
		}
		if seen[code] {
			t.Fatalf("minted live code %q twice", code)
		}
		seen[code] = true
		registry.CreateOrGet(code)
	}
}
