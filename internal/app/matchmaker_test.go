package app

import (
	"testing"
	"time"

	"football-duel-service/internal/domain"
)

func TestMatchmakerPairsInArrivalOrder(t *testing.T) {
	m := NewMatchmaker()
	now := time.Now()
	for i := 1; i <= 4; i++ {
		if _, err := m.Enqueue("mystery-player", player(i), now.Add(time.Duration(i)*time.Millisecond)); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	a, b, ok := m.TakePair("mystery-player")
	if !ok || a.Player.PlayerID != "player-1" || b.Player.PlayerID != "player-2" {
		t.Fatalf("expected (p1,p2), got (%s,%s)", a.Player.PlayerID, b.Player.PlayerID)
	}
	a, b, ok = m.TakePair("mystery-player")
	if !ok || a.Player.PlayerID != "player-3" || b.Player.PlayerID != "player-4" {
		t.Fatalf("expected (p3,p4), got (%s,%s)", a.Player.PlayerID, b.Player.PlayerID)
	}
	if _, _, ok := m.TakePair("mystery-player"); ok {
		t.Fatalf("queue should be empty")
	}
}

func TestMatchmakerDuplicateAndModeIsolation(t *testing.T) {
	m := NewMatchmaker()
	now := time.Now()

	if _, err := m.Enqueue("mystery-player", player(1), now); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := m.Enqueue("mystery-player", player(1), now); err != domain.ErrAlreadyQueued {
		t.Fatalf("expected ErrAlreadyQueued, got %v", err)
	}
	// Same player in another mode is a separate queue.
	if _, err := m.Enqueue("letter-hunt", player(1), now); err != nil {
		t.Fatalf("cross-mode enqueue: %v", err)
	}
	if _, _, ok := m.TakePair("mystery-player"); ok {
		t.Fatalf("single entry must not pair")
	}
}

func TestMatchmakerLeaveIsIdempotent(t *testing.T) {
	m := NewMatchmaker()
	now := time.Now()
	p := player(1)

	if _, err := m.Enqueue("mystery-player", p, now); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	m.Leave("mystery-player", p.ConnectionID)
	m.Leave("mystery-player", p.ConnectionID)

	if _, err := m.Enqueue("mystery-player", p, now); err != nil {
		t.Fatalf("re-enqueue after leave: %v", err)
	}
	m.RemoveConnection(p.ConnectionID)
	if _, err := m.Enqueue("mystery-player", p, now); err != nil {
		t.Fatalf("re-enqueue after disconnect: %v", err)
	}
}
