package domain

// Outbound event names emitted by the engine over the transport.
const (
	EventSearching            = "searching"
	EventMatchFound           = "match_found"
	EventRoomCreated          = "room_created"
	EventNewQuestion          = "new_question"
	EventRoundResults         = "round_results"
	EventJokerUsed            = "joker_used"
	EventOpponentDisconnected = "opponent_disconnected"
	EventGameOver             = "game_over"
	EventError                = "error"
)

// SearchingPayload reports the caller's position in the matchmaking queue.
type SearchingPayload struct {
	QueuePosition int `json:"queuePosition"`
}

// MatchFoundPayload announces a new session to one of its players.
type MatchFoundPayload struct {
	SessionID      string     `json:"sessionId"`
	Opponent       PlayerInfo `json:"opponent"`
	GameMode       string     `json:"gameMode"`
	TotalQuestions int        `json:"totalQuestions"`
}

// RoomCreatedPayload returns the invite code to a private room host. The
// session does not exist until a joiner consumes the code.
type RoomCreatedPayload struct {
	Code      string `json:"code"`
	SessionID string `json:"sessionId,omitempty"`
}

// QuestionView is a Question with the answer stripped for broadcast.
type QuestionView struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Hints   []string `json:"hints,omitempty"`
	Options []string `json:"options,omitempty"`
}

// View returns the client-safe projection of a question.
func (q Question) View() QuestionView {
	return QuestionView{ID: q.ID, Type: q.Type, Prompt: q.Prompt, Hints: q.Hints, Options: q.Options}
}

// NewQuestionPayload opens a round on the client.
type NewQuestionPayload struct {
	QuestionNumber  int          `json:"questionNumber"`
	TotalQuestions  int          `json:"totalQuestions"`
	Question        QuestionView `json:"question"`
	DeadlineSeconds float64      `json:"deadlineSeconds"`
}

// RoundResultsPayload closes a round on the client.
type RoundResultsPayload struct {
	CorrectAnswer string         `json:"correctAnswer"`
	PerPlayer     []RoundAnswer  `json:"perPlayer"`
	RunningScores map[string]int `json:"runningScores"`
}

// JokerUsedPayload confirms a joker and carries its caller-only effect.
type JokerUsedPayload struct {
	JokerKind JokerKind   `json:"jokerKind"`
	Effect    JokerEffect `json:"effectPayload"`
}

// JokerEffect is the per-kind result of applying a joker. Only the fields
// relevant to the kind are set.
type JokerEffect struct {
	DeadlineSeconds float64  `json:"deadlineSeconds,omitempty"`
	Eliminated      []string `json:"eliminated,omitempty"`
	LetterPosition  *int     `json:"letterPosition,omitempty"`
	Letter          string   `json:"letter,omitempty"`
	Skipped         bool     `json:"skipped,omitempty"`
}

// OpponentDisconnectedPayload starts the forfeit countdown on the client.
type OpponentDisconnectedPayload struct {
	GraceSeconds float64 `json:"graceSeconds"`
}

// PlayerReward is one player's settlement line in the game_over payload.
type PlayerReward struct {
	PlayerID string  `json:"playerId"`
	Outcome  Outcome `json:"outcome"`
	IsWinner bool    `json:"isWinner"`
	XP       int     `json:"xp"`
	Coins    int     `json:"coins"`
}

// GameOverPayload reports the final result of a session.
type GameOverPayload struct {
	WinnerPlayerID string                  `json:"winnerPlayerId,omitempty"`
	IsDraw         bool                    `json:"isDraw"`
	FinalScores    map[string]int          `json:"finalScores"`
	Rewards        map[string]PlayerReward `json:"rewards"`
}

// ErrorPayload is sent for rejected events; no state changed.
type ErrorPayload struct {
	Message string `json:"message"`
}
