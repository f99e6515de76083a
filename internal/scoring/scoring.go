// Package scoring holds the pure answer-scoring function. It has no side
// effects and no dependencies; everything tunable lives in Policy.
package scoring

import "math"

// Policy carries the scoring constants. Defaults reproduce the original
// game's values; callers may override them per session.
type Policy struct {
	BasePoints       int     `yaml:"basePoints" json:"basePoints"`
	RoundSeconds     float64 `yaml:"roundSeconds" json:"roundSeconds"`
	BonusPerSecond   float64 `yaml:"bonusPerSecond" json:"bonusPerSecond"`
	ComboCap         int     `yaml:"comboCap" json:"comboCap"`
}

// DefaultPolicy returns the stock constants: 100 base points, 15 second
// rounds, 10 bonus points per saved second, combo multiplier capped at 5x.
func DefaultPolicy() Policy {
	return Policy{
		BasePoints:      100,
		RoundSeconds:    15,
		BonusPerSecond:  10,
		ComboCap:        5,
	}
}

// Result is the outcome of scoring one answer.
type Result struct {
	Points     int
	ComboAfter int
}

// Score maps (correctness, elapsed time, combo before) to awarded points and
// the new combo. Incorrect or missing answers score zero and reset the combo.
func Score(p Policy, correct bool, elapsedSeconds float64, comboBefore int) Result {
	if !correct {
		return Result{Points: 0, ComboAfter: 0}
	}

	bonus := int(math.Round((p.RoundSeconds - elapsedSeconds) * p.BonusPerSecond))
	if bonus < 0 {
		bonus = 0
	}

	combo := comboBefore + 1
	multiplier := combo
	if multiplier > p.ComboCap {
		multiplier = p.ComboCap
	}

	return Result{
		Points:     (p.BasePoints + bonus) * multiplier,
		ComboAfter: combo,
	}
}
