package game

import (
	"log"
	"sync"
)

// Registry owns every live Room, keyed by room code. It is constructed
// at the composition root and injected wherever rooms are needed, so
// tests can run isolated registries side by side.
//
// Lock order: registry.mu may be held while taking a room's lock,
// never the reverse.
type Registry struct {
	rooms map[string]*Room
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateOrGet returns the room for a code, creating a fresh sandbox
// room on first join. Creation on an unknown code is the normal path,
// not an error.
func (reg *Registry) CreateOrGet(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.rooms[code]; ok {
		return room
	}
	room := newRoom(code)
	reg.rooms[code] = room
	log.Printf("[ROOM] Created room %s", code)
	return room
}

// Get returns the room for a code if it exists.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// Has reports whether a code is in use; the room-code minter checks
// this to avoid collisions.
func (reg *Registry) Has(code string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[code]
	return ok
}

// Snapshot returns the current rooms; callers lock each room before
// touching its state.
func (reg *Registry) Snapshot() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// ActiveRoomCount returns the number of live rooms.
func (reg *Registry) ActiveRoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// DestroyIfEmpty deletes a room once both slots are free and no grace
// entry is pending, cancelling its physics loop so no timer outlives
// the room.
func (reg *Registry) DestroyIfEmpty(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok {
		return
	}

	room.mu.Lock()
	if !room.empty() {
		room.mu.Unlock()
		return
	}
	room.Ball.Running = false
	for id, t := range room.graceTimers {
		t.Stop()
		delete(room.graceTimers, id)
	}
	room.mu.Unlock()

	delete(reg.rooms, code)
	log.Printf("[ROOM] Destroyed empty room %s", code)
}
