package game

import (
	"testing"
	"time"
)

func TestCreateOrGetReturnsSameRoom(t *testing.T) {
	reg := NewRegistry()

	a := reg.CreateOrGet("AB12")
	b := reg.CreateOrGet("AB12")
	if a != b {
		t.Error("CreateOrGet minted a second room for the same code")
	}
	if reg.ActiveRoomCount() != 1 {
		t.Errorf("active rooms = %d, want 1", reg.ActiveRoomCount())
	}
}

func TestNewRoomDefaults(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateOrGet("AB12")

	room.mu.Lock()
	defer room.mu.Unlock()
	if !room.SandboxMode {
		t.Error("fresh room should be in sandbox mode")
	}
	if room.CurrentTurn != 1 {
		t.Errorf("fresh room turn = %d, want 1", room.CurrentTurn)
	}
	if room.Phase != PhaseIdle {
		t.Errorf("fresh room phase = %s, want %s", room.Phase, PhaseIdle)
	}
	if room.Ball.Position != ballCenter() {
		t.Errorf("fresh room ball at %v, want center", room.Ball.Position)
	}
}

func TestHasAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.CreateOrGet("AB12")

	if !reg.Has("AB12") {
		t.Error("Has = false for live room")
	}
	if reg.Has("ZZZZ") {
		t.Error("Has = true for unknown code")
	}
	if _, ok := reg.Get("ZZZZ"); ok {
		t.Error("Get returned a room for unknown code")
	}
}

func TestDestroyIfEmptySkipsOccupiedRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateOrGet("AB12")

	room.mu.Lock()
	room.assignSlot("conn-1", "Ada")
	room.mu.Unlock()

	reg.DestroyIfEmpty("AB12")
	if !reg.Has("AB12") {
		t.Error("occupied room was destroyed")
	}
}

func TestDestroyIfEmptySkipsPendingGrace(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateOrGet("AB12")

	room.mu.Lock()
	room.assignSlot("conn-1", "Ada")
	room.vacateSlot("conn-1")
	room.Disconnected["conn-1"] = time.Now()
	room.mu.Unlock()

	reg.DestroyIfEmpty("AB12")
	if !reg.Has("AB12") {
		t.Error("room with a pending reconnect was destroyed")
	}
}

func TestDestroyIfEmptyRemovesEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateOrGet("AB12")

	room.mu.Lock()
	room.Ball.Running = true
	room.mu.Unlock()

	reg.DestroyIfEmpty("AB12")
	if reg.Has("AB12") {
		t.Error("empty room survived DestroyIfEmpty")
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.Ball.Running {
		t.Error("destroyed room's simulation loop was not cancelled")
	}
}

func TestSnapshotListsAllRooms(t *testing.T) {
	reg := NewRegistry()
	reg.CreateOrGet("AB12")
	reg.CreateOrGet("CD34")

	rooms := reg.Snapshot()
	if len(rooms) != 2 {
		t.Fatalf("snapshot has %d rooms, want 2", len(rooms))
	}
	codes := map[string]bool{}
	for _, r := range rooms {
		codes[r.Code] = true
	}
	if !codes["AB12"] || !codes["CD34"] {
		t.Errorf("snapshot missing rooms: %v", codes)
	}
}

func TestSlotAssignment(t *testing.T) {
	room := newRoom("AB12")

	room.mu.Lock()
	defer room.mu.Unlock()

	if n := room.assignSlot("conn-1", "Ada"); n != 1 {
		t.Errorf("first assignment = %d, want 1", n)
	}
	if n := room.assignSlot("conn-2", "Bo"); n != 2 {
		t.Errorf("second assignment = %d, want 2", n)
	}
	if n := room.assignSlot("conn-3", "Cy"); n != 0 {
		t.Errorf("third assignment = %d, want 0 (full)", n)
	}

	room.vacateSlot("conn-1")
	if n := room.slotOf("conn-1"); n != 0 {
		t.Errorf("vacated conn still in slot %d", n)
	}
	// Lowest free slot is reused.
	if n := room.assignSlot("conn-4", "Di"); n != 1 {
		t.Errorf("reassignment = %d, want 1", n)
	}
}
