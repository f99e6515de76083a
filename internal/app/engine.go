package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"football-duel-service/internal/domain"
	"football-duel-service/internal/scoring"
)

// QuestionSource supplies shuffled question sets per game mode.
type QuestionSource interface {
	DrawQuestions(ctx context.Context, gameMode string, count int) ([]domain.Question, error)
}

// UserStore is the engine's narrow view of player persistence. All calls are
// player-scoped; no cross-player transaction is assumed.
type UserStore interface {
	GetJokerCount(ctx context.Context, playerID string, kind domain.JokerKind) (int, error)
	DecrementJoker(ctx context.Context, playerID string, kind domain.JokerKind) error
	ApplyGameResult(ctx context.Context, playerID string, outcome domain.Outcome, scoreDelta, xp, coins int) error
}

// Emitter delivers a named event to one connection. Implementations must not
// block; the engine may emit while holding a session lock.
type Emitter interface {
	Emit(connectionID, event string, payload any)
}

// Engine owns matchmaking, private rooms and every live session. Two
// sessions never share state; each is serialized by its own lock.
type Engine struct {
	queue     *Matchmaker
	invites   InviteDirectory
	users     UserStore
	questions QuestionSource
	emitter   Emitter
	policy    domain.Policy
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	byConn   map[string]string
}

func NewEngine(invites InviteDirectory, users UserStore, questions QuestionSource, emitter Emitter, policy domain.Policy) *Engine {
	return &Engine{
		queue:     NewMatchmaker(),
		invites:   invites,
		users:     users,
		questions: questions,
		emitter:   emitter,
		policy:    policy,
		now:       time.Now,
		sessions:  make(map[string]*Session),
		byConn:    make(map[string]string),
	}
}

// JoinMatchmaking enqueues a player and pairs the two oldest entries into a
// session as soon as the mode's queue holds two.
func (e *Engine) JoinMatchmaking(ctx context.Context, gameMode string, player domain.PlayerInfo) error {
	position, err := e.queue.Enqueue(gameMode, player, e.now())
	if err != nil {
		return err
	}

	first, second, ok := e.queue.TakePair(gameMode)
	if !ok {
		e.emitter.Emit(player.ConnectionID, domain.EventSearching, domain.SearchingPayload{QueuePosition: position})
		return nil
	}
	e.createSession(ctx, gameMode, first.Player, second.Player)
	return nil
}

// LeaveMatchmaking removes the connection from one mode's queue.
func (e *Engine) LeaveMatchmaking(gameMode, connectionID string) {
	e.queue.Leave(gameMode, connectionID)
}

// CreatePrivateRoom stores an invite and returns its code to the host.
func (e *Engine) CreatePrivateRoom(ctx context.Context, gameMode string, host domain.PlayerInfo) error {
	code, err := e.invites.CreateInvite(ctx, gameMode, host)
	if err != nil {
		return err
	}
	e.emitter.Emit(host.ConnectionID, domain.EventRoomCreated, domain.RoomCreatedPayload{Code: code})
	return nil
}

// JoinPrivateRoom consumes an invite code and starts a session between the
// host and the joiner. A second joiner racing on the same code loses the
// atomic consume and gets ErrInviteNotFound.
func (e *Engine) JoinPrivateRoom(ctx context.Context, code string, joiner domain.PlayerInfo) error {
	invite, err := e.invites.ConsumeInvite(ctx, code)
	if err != nil {
		return err
	}
	e.createSession(ctx, invite.GameMode, invite.Host, joiner)
	return nil
}

// createSession draws questions and brings a session to life. A content
// failure aborts creation and notifies both would-be players.
func (e *Engine) createSession(ctx context.Context, gameMode string, a, b domain.PlayerInfo) {
	drawCtx, cancel := context.WithTimeout(ctx, e.policy.DrawTimeout)
	defer cancel()

	questions, err := e.questions.DrawQuestions(drawCtx, gameMode, e.policy.QuestionsPerMatch)
	if err != nil || len(questions) == 0 {
		log.Printf("session aborted, no questions for mode %q: %v", gameMode, err)
		for _, p := range []domain.PlayerInfo{a, b} {
			e.emitter.Emit(p.ConnectionID, domain.EventError, domain.ErrorPayload{Message: domain.ErrModeUnavailable.Error()})
		}
		return
	}

	session := newSession(uuid.NewString(), gameMode, questions, a, b, e.policy, e.now)

	e.mu.Lock()
	e.sessions[session.ID] = session
	e.byConn[a.ConnectionID] = session.ID
	e.byConn[b.ConnectionID] = session.ID
	e.mu.Unlock()

	e.emitter.Emit(a.ConnectionID, domain.EventMatchFound, domain.MatchFoundPayload{
		SessionID: session.ID, Opponent: b, GameMode: gameMode, TotalQuestions: len(questions),
	})
	e.emitter.Emit(b.ConnectionID, domain.EventMatchFound, domain.MatchFoundPayload{
		SessionID: session.ID, Opponent: a, GameMode: gameMode, TotalQuestions: len(questions),
	})

	if e.policy.StartDelay <= 0 {
		e.openRound(session)
		return
	}
	time.AfterFunc(e.policy.StartDelay, func() { e.openRound(session) })
}

func (e *Engine) session(sessionID string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[sessionID]
	return s, ok
}

func (e *Engine) openRound(s *Session) {
	s.mu.Lock()
	if s.status == statusFinished {
		s.mu.Unlock()
		return
	}
	e.openRoundLocked(s)
	s.mu.Unlock()
}

func (e *Engine) openRoundLocked(s *Session) {
	s.status = statusRoundOpen
	s.generation++
	s.openedAt = e.now()
	s.deadline = s.openedAt.Add(e.policy.RoundTime)
	s.answers = make(map[string]*domain.RoundAnswer)
	for _, p := range s.players {
		p.revealed = make(map[int]bool)
	}

	generation := s.generation
	s.roundTimer = time.AfterFunc(e.policy.RoundTime, func() { e.roundDeadline(s, generation) })

	payload := domain.NewQuestionPayload{
		QuestionNumber:  s.round + 1,
		TotalQuestions:  len(s.questions),
		Question:        s.currentQuestion().View(),
		DeadlineSeconds: e.policy.RoundTime.Seconds(),
	}
	e.emitToSessionLocked(s, domain.EventNewQuestion, payload)
}

// roundDeadline is the timer callback for an open round. The generation
// check makes a late fire against an already-resolved round a no-op.
func (e *Engine) roundDeadline(s *Session, generation uint64) {
	s.mu.Lock()
	if s.status != statusRoundOpen || s.generation != generation {
		s.mu.Unlock()
		return
	}
	// Elapsed covers the whole open-to-deadline span, including extensions.
	elapsed := s.deadline.Sub(s.openedAt).Seconds()
	for _, p := range s.players {
		if _, ok := s.answers[p.info.PlayerID]; ok {
			continue
		}
		s.answers[p.info.PlayerID] = &domain.RoundAnswer{
			PlayerID:       p.info.PlayerID,
			Submitted:      nil,
			ElapsedSeconds: elapsed,
			Correct:        false,
			Points:         0,
			Combo:          0,
		}
	}
	job := e.resolveRoundLocked(s)
	s.mu.Unlock()

	if job != nil {
		e.settle(job)
	}
}

// SubmitAnswer records a player's answer for the open round and resolves the
// round once both answers are in.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, playerID, answer string) error {
	s, ok := e.session(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	if s.status != statusRoundOpen {
		s.mu.Unlock()
		return domain.ErrRoundNotOpen
	}
	player := s.playerByID(playerID)
	if player == nil {
		s.mu.Unlock()
		return domain.ErrPlayerNotFound
	}
	if _, dup := s.answers[playerID]; dup {
		s.mu.Unlock()
		return domain.ErrAnswerAlreadySubmitted
	}

	elapsed := e.now().Sub(s.openedAt).Seconds()
	correct := answerMatches(s.currentQuestion().Answer, answer)
	result := scoring.Score(e.policy.Scoring, correct, elapsed, player.combo)

	submitted := answer
	s.answers[playerID] = &domain.RoundAnswer{
		PlayerID:       playerID,
		Submitted:      &submitted,
		ElapsedSeconds: elapsed,
		Correct:        correct,
		Points:         result.Points,
		Combo:          result.ComboAfter,
	}

	var job *settlement
	if len(s.answers) == len(s.players) {
		job = e.resolveRoundLocked(s)
	}
	s.mu.Unlock()

	if job != nil {
		e.settle(job)
	}
	return nil
}

// resolveRoundLocked is the single authoritative round transition: it fires
// exactly once per round, applies the recorded answers to scores and combos,
// broadcasts results and advances. It returns a settlement job when the
// session just finished; the caller runs it after releasing the lock since
// settlement performs store I/O.
func (e *Engine) resolveRoundLocked(s *Session) *settlement {
	s.status = statusRoundResolved
	s.generation++
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}

	// Scores and combos only move here, never on submission, so a skipped
	// round leaves both untouched.
	perPlayer := make([]domain.RoundAnswer, 0, len(s.players))
	for _, p := range s.players {
		if a, ok := s.answers[p.info.PlayerID]; ok {
			p.score += a.Points
			p.combo = a.Combo
			perPlayer = append(perPlayer, *a)
		}
	}
	e.emitToSessionLocked(s, domain.EventRoundResults, domain.RoundResultsPayload{
		CorrectAnswer: s.currentQuestion().Answer,
		PerPlayer:     perPlayer,
		RunningScores: s.runningScores(),
	})

	return e.advanceLocked(s)
}

// advanceLocked moves to the next round or finishes the session.
func (e *Engine) advanceLocked(s *Session) *settlement {
	s.round++
	if s.round < len(s.questions) {
		e.openRoundLocked(s)
		return nil
	}
	return e.finishLocked(s, "")
}

// emitToSessionLocked sends an event to both players, skipping dropped
// connections.
func (e *Engine) emitToSessionLocked(s *Session, event string, payload any) {
	for _, p := range s.players {
		if p.disconnected {
			continue
		}
		e.emitter.Emit(p.info.ConnectionID, event, payload)
	}
}

// Disconnect detaches a connection: it leaves any matchmaking queue and, if
// the connection is in a live session, starts the forfeit grace window.
func (e *Engine) Disconnect(connectionID string) {
	e.queue.RemoveConnection(connectionID)

	e.mu.Lock()
	sessionID, ok := e.byConn[connectionID]
	if ok {
		delete(e.byConn, connectionID)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	s, ok := e.session(sessionID)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == statusFinished {
		return
	}
	var player *playerState
	for _, p := range s.players {
		if p.info.ConnectionID == connectionID {
			player = p
		}
	}
	if player == nil || player.disconnected {
		return
	}

	player.disconnected = true
	player.disconnectedAt = e.now()
	playerID := player.info.PlayerID
	player.graceTimer = time.AfterFunc(e.policy.DisconnectGrace, func() { e.graceExpired(s, playerID) })

	if opponent := s.opponentOf(playerID); opponent != nil && !opponent.disconnected {
		e.emitter.Emit(opponent.info.ConnectionID, domain.EventOpponentDisconnected, domain.OpponentDisconnectedPayload{
			GraceSeconds: e.policy.DisconnectGrace.Seconds(),
		})
	}
}

// Resume reattaches a player who reconnected within the grace window. The
// grace timer is cancelled and the client is resynced with the session state.
func (e *Engine) Resume(sessionID, playerID, connectionID string) error {
	s, ok := e.session(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	player := s.playerByID(playerID)
	if player == nil {
		s.mu.Unlock()
		return domain.ErrPlayerNotFound
	}
	if player.graceTimer != nil {
		player.graceTimer.Stop()
		player.graceTimer = nil
	}
	player.disconnected = false
	player.info.ConnectionID = connectionID

	opponent := s.opponentOf(playerID)
	resync := domain.MatchFoundPayload{
		SessionID:      s.ID,
		Opponent:       opponent.info,
		GameMode:       s.GameMode,
		TotalQuestions: len(s.questions),
	}
	e.emitter.Emit(connectionID, domain.EventMatchFound, resync)
	if s.status == statusRoundOpen {
		e.emitter.Emit(connectionID, domain.EventNewQuestion, domain.NewQuestionPayload{
			QuestionNumber:  s.round + 1,
			TotalQuestions:  len(s.questions),
			Question:        s.currentQuestion().View(),
			DeadlineSeconds: s.deadline.Sub(e.now()).Seconds(),
		})
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.byConn[connectionID] = sessionID
	e.mu.Unlock()
	return nil
}

// graceExpired abandons the session in favor of the still-connected player.
func (e *Engine) graceExpired(s *Session, playerID string) {
	s.mu.Lock()
	if s.status == statusFinished {
		s.mu.Unlock()
		return
	}
	player := s.playerByID(playerID)
	if player == nil || !player.disconnected {
		s.mu.Unlock()
		return
	}
	opponent := s.opponentOf(playerID)
	job := e.finishLocked(s, opponent.info.PlayerID)
	s.mu.Unlock()

	e.settle(job)
}
