package app

import (
	"sync"
	"time"

	"football-duel-service/internal/domain"
)

// Matchmaker keeps one FIFO queue of waiting players per game mode.
// Pairing is strictly first-come, first-paired; there is no skill matching.
type Matchmaker struct {
	mu     sync.Mutex
	queues map[string][]domain.QueueEntry
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{queues: make(map[string][]domain.QueueEntry)}
}

// Enqueue appends a player to the mode's queue and returns their position
// (1-based). A player already waiting in the same mode is rejected.
func (m *Matchmaker) Enqueue(gameMode string, player domain.PlayerInfo, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.queues[gameMode] {
		if entry.Player.PlayerID == player.PlayerID {
			return 0, domain.ErrAlreadyQueued
		}
	}
	m.queues[gameMode] = append(m.queues[gameMode], domain.QueueEntry{Player: player, JoinedAt: now})
	return len(m.queues[gameMode]), nil
}

// TakePair pops the two oldest entries for a mode, if at least two wait.
func (m *Matchmaker) TakePair(gameMode string) (domain.QueueEntry, domain.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.queues[gameMode]
	if len(queue) < 2 {
		return domain.QueueEntry{}, domain.QueueEntry{}, false
	}
	first, second := queue[0], queue[1]
	m.queues[gameMode] = append([]domain.QueueEntry(nil), queue[2:]...)
	return first, second, true
}

// Leave removes a connection from one mode's queue. No-op if absent.
func (m *Matchmaker) Leave(gameMode, connectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[gameMode] = removeConnection(m.queues[gameMode], connectionID)
}

// RemoveConnection drops a connection from every queue, used on disconnect.
func (m *Matchmaker) RemoveConnection(connectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for mode, queue := range m.queues {
		m.queues[mode] = removeConnection(queue, connectionID)
	}
}

func removeConnection(queue []domain.QueueEntry, connectionID string) []domain.QueueEntry {
	kept := queue[:0]
	for _, entry := range queue {
		if entry.Player.ConnectionID != connectionID {
			kept = append(kept, entry)
		}
	}
	return kept
}
