package app

import (
	"strings"
	"sync"
	"time"

	"football-duel-service/internal/domain"
)

type sessionStatus int

const (
	statusStarting sessionStatus = iota
	statusRoundOpen
	statusRoundResolved
	statusFinished
)

// playerState is one player's mutable state within a session.
type playerState struct {
	info           domain.PlayerInfo
	score          int
	combo          int
	disconnected   bool
	disconnectedAt time.Time
	graceTimer     *time.Timer
	revealed       map[int]bool
}

// Session is one two-player match from pairing to settlement. All fields
// behind mu are owned by whoever holds the lock; round transitions and their
// broadcasts happen under it. The generation counter is bumped on every
// open/resolve so a stale deadline timer can verify it observed the current
// round before acting.
type Session struct {
	ID       string
	GameMode string

	questions []domain.Question
	policy    domain.Policy
	now       func() time.Time

	mu         sync.Mutex
	status     sessionStatus
	round      int
	generation uint64
	openedAt   time.Time
	deadline   time.Time
	roundTimer *time.Timer
	answers    map[string]*domain.RoundAnswer
	players    [2]*playerState
}

func newSession(id, gameMode string, questions []domain.Question, a, b domain.PlayerInfo, policy domain.Policy, now func() time.Time) *Session {
	return &Session{
		ID:        id,
		GameMode:  gameMode,
		questions: questions,
		policy:    policy,
		now:       now,
		status:    statusStarting,
		answers:   make(map[string]*domain.RoundAnswer),
		players: [2]*playerState{
			{info: a, revealed: make(map[int]bool)},
			{info: b, revealed: make(map[int]bool)},
		},
	}
}

func (s *Session) playerByID(playerID string) *playerState {
	for _, p := range s.players {
		if p.info.PlayerID == playerID {
			return p
		}
	}
	return nil
}

func (s *Session) opponentOf(playerID string) *playerState {
	for _, p := range s.players {
		if p.info.PlayerID != playerID {
			return p
		}
	}
	return nil
}

func (s *Session) currentQuestion() domain.Question {
	return s.questions[s.round]
}

func (s *Session) runningScores() map[string]int {
	scores := make(map[string]int, len(s.players))
	for _, p := range s.players {
		scores[p.info.PlayerID] = p.score
	}
	return scores
}

func (s *Session) stopTimersLocked() {
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}
	for _, p := range s.players {
		if p.graceTimer != nil {
			p.graceTimer.Stop()
			p.graceTimer = nil
		}
	}
}

// answerMatches compares a submission against the stored answer,
// ignoring case and surrounding whitespace.
func answerMatches(stored, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(submitted))
}
