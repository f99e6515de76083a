package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"football-duel-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game GameConfig `yaml:"game"`
}

// GameConfig overrides parts of the default engine policy. Zero values keep
// the defaults, so a partial config stays behaviorally compatible with the
// original constants.
type GameConfig struct {
	QuestionsPerMatch      int            `yaml:"questionsPerMatch"`
	StartDelaySeconds      float64        `yaml:"startDelaySeconds"`
	RoundSeconds           float64        `yaml:"roundSeconds"`
	TimeExtendSeconds      float64        `yaml:"timeExtendSeconds"`
	DisconnectGraceSeconds float64        `yaml:"disconnectGraceSeconds"`
	DrawTimeoutSeconds     float64        `yaml:"drawTimeoutSeconds"`
	BasePoints             int            `yaml:"basePoints"`
	BonusPerSecond         float64        `yaml:"bonusPerSecond"`
	ComboCap               int            `yaml:"comboCap"`
	Rewards                *RewardsConfig `yaml:"rewards"`
}

type RewardsConfig struct {
	Win  RewardConfig `yaml:"win"`
	Loss RewardConfig `yaml:"loss"`
	Draw RewardConfig `yaml:"draw"`
}

type RewardConfig struct {
	XP    int `yaml:"xp"`
	Coins int `yaml:"coins"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Policy merges the game overrides onto the default engine policy.
func (g GameConfig) Policy() domain.Policy {
	p := domain.DefaultPolicy()
	if g.QuestionsPerMatch > 0 {
		p.QuestionsPerMatch = g.QuestionsPerMatch
	}
	if g.StartDelaySeconds > 0 {
		p.StartDelay = seconds(g.StartDelaySeconds)
	}
	if g.RoundSeconds > 0 {
		p.RoundTime = seconds(g.RoundSeconds)
		p.Scoring.RoundSeconds = g.RoundSeconds
	}
	if g.TimeExtendSeconds > 0 {
		p.TimeExtend = seconds(g.TimeExtendSeconds)
	}
	if g.DisconnectGraceSeconds > 0 {
		p.DisconnectGrace = seconds(g.DisconnectGraceSeconds)
	}
	if g.DrawTimeoutSeconds > 0 {
		p.DrawTimeout = seconds(g.DrawTimeoutSeconds)
	}
	if g.BasePoints > 0 {
		p.Scoring.BasePoints = g.BasePoints
	}
	if g.BonusPerSecond > 0 {
		p.Scoring.BonusPerSecond = g.BonusPerSecond
	}
	if g.ComboCap > 0 {
		p.Scoring.ComboCap = g.ComboCap
	}
	if g.Rewards != nil {
		p.Rewards = domain.RewardTable{
			Win:  domain.Reward{XP: g.Rewards.Win.XP, Coins: g.Rewards.Win.Coins},
			Loss: domain.Reward{XP: g.Rewards.Loss.XP, Coins: g.Rewards.Loss.Coins},
			Draw: domain.Reward{XP: g.Rewards.Draw.XP, Coins: g.Rewards.Draw.Coins},
		}
	}
	return p
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
