package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"football-duel-service/internal/domain"
)

// UserStore persists player stats and joker inventories in Postgres. Every
// operation is scoped to one player and idempotent-on-retry from the
// engine's point of view.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) GetJokerCount(ctx context.Context, playerID string, kind domain.JokerKind) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE((jokers->>$2)::int, 0) FROM players WHERE player_id = $1`,
		playerID, string(kind),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("get joker count: %w", err)
	}
	return count, nil
}

func (s *UserStore) DecrementJoker(ctx context.Context, playerID string, kind domain.JokerKind) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE players
		 SET jokers = jsonb_set(jokers, ARRAY[$2],
		     to_jsonb(GREATEST(COALESCE((jokers->>$2)::int, 0) - 1, 0)))
		 WHERE player_id = $1`,
		playerID, string(kind),
	)
	if err != nil {
		return fmt.Errorf("decrement joker: %w", err)
	}
	return nil
}

func (s *UserStore) ApplyGameResult(ctx context.Context, playerID string, outcome domain.Outcome, scoreDelta, xp, coins int) error {
	winDelta, lossDelta := 0, 0
	switch outcome {
	case domain.OutcomeWin:
		winDelta = 1
	case domain.OutcomeLoss:
		lossDelta = 1
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE players
		 SET total_games = total_games + 1,
		     wins        = wins + $2,
		     losses      = losses + $3,
		     points      = points + $4,
		     xp          = xp + $5,
		     coins       = coins + $6
		 WHERE player_id = $1`,
		playerID, winDelta, lossDelta, scoreDelta, xp, coins,
	)
	if err != nil {
		return fmt.Errorf("apply game result: %w", err)
	}
	return nil
}
