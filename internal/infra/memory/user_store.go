package memory

import (
	"context"
	"sync"

	"football-duel-service/internal/domain"
)

// PlayerRecord is the in-memory stat line kept per player.
type PlayerRecord struct {
	Coins      int
	XP         int
	Points     int
	Wins       int
	Losses     int
	TotalGames int
	Jokers     map[domain.JokerKind]int
}

// UserStore is an in-memory implementation of app.UserStore, used when no
// postgres URL is configured and in tests.
type UserStore struct {
	mu      sync.Mutex
	players map[string]*PlayerRecord
}

func NewUserStore() *UserStore {
	return &UserStore{players: make(map[string]*PlayerRecord)}
}

// Seed sets a player's record, creating it if missing.
func (s *UserStore) Seed(playerID string, record PlayerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Jokers == nil {
		record.Jokers = make(map[domain.JokerKind]int)
	}
	s.players[playerID] = &record
}

func (s *UserStore) record(playerID string) *PlayerRecord {
	if r, ok := s.players[playerID]; ok {
		return r
	}
	r := &PlayerRecord{Jokers: make(map[domain.JokerKind]int)}
	s.players[playerID] = r
	return r
}

// Snapshot returns a copy of a player's record for assertions.
func (s *UserStore) Snapshot(playerID string) PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.record(playerID)
	jokers := make(map[domain.JokerKind]int, len(r.Jokers))
	for k, v := range r.Jokers {
		jokers[k] = v
	}
	out := *r
	out.Jokers = jokers
	return out
}

func (s *UserStore) GetJokerCount(_ context.Context, playerID string, kind domain.JokerKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(playerID).Jokers[kind], nil
}

func (s *UserStore) DecrementJoker(_ context.Context, playerID string, kind domain.JokerKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.record(playerID)
	if r.Jokers[kind] > 0 {
		r.Jokers[kind]--
	}
	return nil
}

func (s *UserStore) ApplyGameResult(_ context.Context, playerID string, outcome domain.Outcome, scoreDelta, xp, coins int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.record(playerID)
	r.TotalGames++
	switch outcome {
	case domain.OutcomeWin:
		r.Wins++
	case domain.OutcomeLoss:
		r.Losses++
	}
	r.Points += scoreDelta
	r.XP += xp
	r.Coins += coins
	return nil
}
