package app

import (
	"context"
	"log"

	"football-duel-service/internal/domain"
)

// settledPlayer is one player's share of a settlement job.
type settledPlayer struct {
	info      domain.PlayerInfo
	outcome   domain.Outcome
	score     int
	skipStore bool
}

// settlement is everything needed to credit rewards after the session lock
// is released. User Store calls are blocking I/O and must not run under it.
type settlement struct {
	sessionID   string
	winnerID    string
	isDraw      bool
	finalScores map[string]int
	players     []settledPlayer
}

// finishLocked transitions the session to Finished and builds the settlement
// job. forfeitWinnerID forces the outcome when a disconnect grace window
// expired; the disconnected player is then excluded from reward issuance.
func (e *Engine) finishLocked(s *Session, forfeitWinnerID string) *settlement {
	s.status = statusFinished
	s.generation++
	s.stopTimersLocked()

	job := &settlement{
		sessionID:   s.ID,
		finalScores: s.runningScores(),
	}

	a, b := s.players[0], s.players[1]
	outcomes := map[string]domain.Outcome{}
	switch {
	case forfeitWinnerID != "":
		job.winnerID = forfeitWinnerID
		for _, p := range s.players {
			if p.info.PlayerID == forfeitWinnerID {
				outcomes[p.info.PlayerID] = domain.OutcomeWin
			} else {
				outcomes[p.info.PlayerID] = domain.OutcomeLoss
			}
		}
	case a.score > b.score:
		job.winnerID = a.info.PlayerID
		outcomes[a.info.PlayerID] = domain.OutcomeWin
		outcomes[b.info.PlayerID] = domain.OutcomeLoss
	case b.score > a.score:
		job.winnerID = b.info.PlayerID
		outcomes[b.info.PlayerID] = domain.OutcomeWin
		outcomes[a.info.PlayerID] = domain.OutcomeLoss
	default:
		job.isDraw = true
		outcomes[a.info.PlayerID] = domain.OutcomeDraw
		outcomes[b.info.PlayerID] = domain.OutcomeDraw
	}

	for _, p := range s.players {
		job.players = append(job.players, settledPlayer{
			info:      p.info,
			outcome:   outcomes[p.info.PlayerID],
			score:     p.score,
			skipStore: p.disconnected,
		})
	}
	return job
}

// settle issues one User Store update per player and broadcasts game_over.
// Store failures are logged and independent per player; they never roll back
// the other player's update or block teardown.
func (e *Engine) settle(job *settlement) {
	ctx := context.Background()
	rewards := make(map[string]domain.PlayerReward, len(job.players))

	for _, p := range job.players {
		if p.skipStore {
			continue
		}
		reward := e.policy.Rewards.ByOutcome(p.outcome)
		if err := e.users.ApplyGameResult(ctx, p.info.PlayerID, p.outcome, p.score, reward.XP, reward.Coins); err != nil {
			log.Printf("settlement failed for player %s in session %s: %v", p.info.PlayerID, job.sessionID, err)
		}
		rewards[p.info.PlayerID] = domain.PlayerReward{
			PlayerID: p.info.PlayerID,
			Outcome:  p.outcome,
			IsWinner: p.info.PlayerID == job.winnerID,
			XP:       reward.XP,
			Coins:    reward.Coins,
		}
	}

	payload := domain.GameOverPayload{
		WinnerPlayerID: job.winnerID,
		IsDraw:         job.isDraw,
		FinalScores:    job.finalScores,
		Rewards:        rewards,
	}
	for _, p := range job.players {
		if p.skipStore {
			continue
		}
		e.emitter.Emit(p.info.ConnectionID, domain.EventGameOver, payload)
	}

	e.mu.Lock()
	delete(e.sessions, job.sessionID)
	for _, p := range job.players {
		if e.byConn[p.info.ConnectionID] == job.sessionID {
			delete(e.byConn, p.info.ConnectionID)
		}
	}
	e.mu.Unlock()
}
