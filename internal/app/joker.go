package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"football-duel-service/internal/domain"
)

// UseJoker validates and applies a power-up against the caller's current
// round. The session lock is released around the inventory lookup and round
// identity is re-verified before applying; the spend is recorded only after
// the effect landed, so a rejected joker costs nothing.
func (e *Engine) UseJoker(ctx context.Context, sessionID, playerID string, kind domain.JokerKind) error {
	if !domain.KnownJoker(kind) {
		return domain.ErrUnknownJoker
	}
	s, ok := e.session(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	if s.status != statusRoundOpen {
		s.mu.Unlock()
		return domain.ErrRoundNotOpen
	}
	if s.playerByID(playerID) == nil {
		s.mu.Unlock()
		return domain.ErrPlayerNotFound
	}
	round := s.round
	s.mu.Unlock()

	count, err := e.users.GetJokerCount(ctx, playerID, kind)
	if err != nil {
		return err
	}
	if count <= 0 {
		return domain.ErrJokerExhausted
	}

	s.mu.Lock()
	// Round identity is the round number, not the generation: a concurrent
	// time_extend bumps the generation yet leaves this round open.
	if s.status != statusRoundOpen || s.round != round {
		s.mu.Unlock()
		return domain.ErrRoundNotOpen
	}

	var job *settlement
	switch kind {
	case domain.JokerTimeExtend:
		job = e.applyTimeExtendLocked(s, playerID)
	case domain.JokerEliminateTwo:
		e.applyEliminateTwoLocked(s, playerID)
	case domain.JokerRevealLetter:
		e.applyRevealLetterLocked(s, playerID)
	case domain.JokerSkipQuestion:
		job = e.applySkipLocked(s, playerID)
	}
	s.mu.Unlock()

	if err := e.users.DecrementJoker(ctx, playerID, kind); err != nil {
		log.Printf("joker %s spend failed for player %s: %v", kind, playerID, err)
	}
	if job != nil {
		e.settle(job)
	}
	return nil
}

// applyTimeExtendLocked pushes the running deadline forward and re-arms the
// timer under the new generation. Already-submitted answers keep their
// elapsed times.
func (e *Engine) applyTimeExtendLocked(s *Session, playerID string) *settlement {
	s.deadline = s.deadline.Add(e.policy.TimeExtend)
	s.generation++
	generation := s.generation
	if s.roundTimer != nil {
		s.roundTimer.Stop()
	}
	remaining := s.deadline.Sub(e.now())
	if remaining <= 0 {
		// deadline already in the past even after the extension
		s.roundTimer = nil
		elapsed := s.deadline.Sub(s.openedAt).Seconds()
		for _, p := range s.players {
			if _, ok := s.answers[p.info.PlayerID]; !ok {
				s.answers[p.info.PlayerID] = &domain.RoundAnswer{
					PlayerID:       p.info.PlayerID,
					ElapsedSeconds: elapsed,
				}
			}
		}
		return e.resolveRoundLocked(s)
	}
	s.roundTimer = time.AfterFunc(remaining, func() { e.roundDeadline(s, generation) })

	effect := domain.JokerEffect{DeadlineSeconds: remaining.Seconds()}
	e.emitToSessionLocked(s, domain.EventJokerUsed, domain.JokerUsedPayload{JokerKind: domain.JokerTimeExtend, Effect: effect})
	return nil
}

// applyEliminateTwoLocked picks two distractors for the caller to hide
// client-side. Server-held question state is untouched.
func (e *Engine) applyEliminateTwoLocked(s *Session, playerID string) {
	question := s.currentQuestion()
	distractors := make([]string, 0, len(question.Options))
	for _, opt := range question.Options {
		if !answerMatches(question.Answer, opt) {
			distractors = append(distractors, opt)
		}
	}
	rand.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > 2 {
		distractors = distractors[:2]
	}

	player := s.playerByID(playerID)
	e.emitter.Emit(player.info.ConnectionID, domain.EventJokerUsed, domain.JokerUsedPayload{
		JokerKind: domain.JokerEliminateTwo,
		Effect:    domain.JokerEffect{Eliminated: distractors},
	})
}

// applyRevealLetterLocked uncovers one still-hidden character of the answer
// for the caller only. Spaces never count as hidden.
func (e *Engine) applyRevealLetterLocked(s *Session, playerID string) {
	player := s.playerByID(playerID)
	answer := []rune(s.currentQuestion().Answer)

	hidden := make([]int, 0, len(answer))
	for i, r := range answer {
		if r == ' ' || player.revealed[i] {
			continue
		}
		hidden = append(hidden, i)
	}

	effect := domain.JokerEffect{}
	if len(hidden) > 0 {
		pos := hidden[rand.Intn(len(hidden))]
		player.revealed[pos] = true
		effect.LetterPosition = &pos
		effect.Letter = string(answer[pos])
	}
	e.emitter.Emit(player.info.ConnectionID, domain.EventJokerUsed, domain.JokerUsedPayload{
		JokerKind: domain.JokerRevealLetter,
		Effect:    effect,
	})
}

// applySkipLocked force-resolves the shared round with no answers recorded:
// nobody scores and combos are left as they were. This is the one joker that
// touches the opponent's state.
func (e *Engine) applySkipLocked(s *Session, playerID string) *settlement {
	s.answers = make(map[string]*domain.RoundAnswer)
	e.emitToSessionLocked(s, domain.EventJokerUsed, domain.JokerUsedPayload{
		JokerKind: domain.JokerSkipQuestion,
		Effect:    domain.JokerEffect{Skipped: true},
	})
	return e.resolveRoundLocked(s)
}
