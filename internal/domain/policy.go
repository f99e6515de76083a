package domain

import (
	"time"

	"football-duel-service/internal/scoring"
)

// Policy bundles every tunable of the game engine. The source values are
// preserved as defaults; all of them can be overridden from config without
// touching engine code.
type Policy struct {
	QuestionsPerMatch int
	StartDelay        time.Duration
	RoundTime         time.Duration
	TimeExtend        time.Duration
	DisconnectGrace   time.Duration
	DrawTimeout       time.Duration
	Scoring           scoring.Policy
	Rewards           RewardTable
}

// DefaultPolicy returns the stock engine policy: 10 questions, 3s start
// delay, 15s rounds, +5s time extend, 30s disconnect grace.
func DefaultPolicy() Policy {
	return Policy{
		QuestionsPerMatch: 10,
		StartDelay:        3 * time.Second,
		RoundTime:         15 * time.Second,
		TimeExtend:        5 * time.Second,
		DisconnectGrace:   30 * time.Second,
		DrawTimeout:       5 * time.Second,
		Scoring:           scoring.DefaultPolicy(),
		Rewards: RewardTable{
			Win:  Reward{XP: 50, Coins: 30},
			Loss: Reward{XP: 20, Coins: 10},
			Draw: Reward{XP: 35, Coins: 20},
		},
	}
}
