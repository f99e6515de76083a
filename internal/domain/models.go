package domain

import "time"

// PlayerInfo identifies one connected player.
type PlayerInfo struct {
	ConnectionID string `json:"-"`
	PlayerID     string `json:"playerId"`
	DisplayName  string `json:"displayName"`
}

// QueueEntry is one waiting player in a matchmaking queue.
type QueueEntry struct {
	Player   PlayerInfo
	JoinedAt time.Time
}

// Invite is a pending private room, consumed exactly once by a joiner.
type Invite struct {
	Code      string
	GameMode  string
	Host      PlayerInfo
	CreatedAt time.Time
}

// Question models one round's content. Answer never leaves the server
// before the round resolves.
type Question struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Hints   []string `json:"hints,omitempty"`
	Answer  string   `json:"answer"`
	Options []string `json:"options,omitempty"`
}

// RoundAnswer records one player's outcome for one round. Created at most
// once per player per round; a nil Submitted marks a timeout.
type RoundAnswer struct {
	PlayerID       string  `json:"playerId"`
	Submitted      *string `json:"submitted"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	Correct        bool    `json:"correct"`
	Points         int     `json:"points"`
	Combo          int     `json:"combo"`
}

// JokerKind enumerates the consumable power-ups.
type JokerKind string

const (
	JokerTimeExtend   JokerKind = "time_extend"
	JokerEliminateTwo JokerKind = "eliminate_two"
	JokerRevealLetter JokerKind = "reveal_letter"
	JokerSkipQuestion JokerKind = "skip_question"
)

// KnownJoker reports whether kind is one of the supported jokers.
func KnownJoker(kind JokerKind) bool {
	switch kind {
	case JokerTimeExtend, JokerEliminateTwo, JokerRevealLetter, JokerSkipQuestion:
		return true
	}
	return false
}

// Outcome is a player's result in a finished match.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Reward is the XP/coin credit attached to an outcome.
type Reward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// RewardTable maps outcomes to rewards. Values are policy, not mechanism.
type RewardTable struct {
	Win  Reward `json:"win"`
	Loss Reward `json:"loss"`
	Draw Reward `json:"draw"`
}

// ByOutcome returns the reward for an outcome.
func (t RewardTable) ByOutcome(o Outcome) Reward {
	switch o {
	case OutcomeWin:
		return t.Win
	case OutcomeLoss:
		return t.Loss
	default:
		return t.Draw
	}
}
