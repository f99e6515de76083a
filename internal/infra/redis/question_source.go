package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"football-duel-service/internal/domain"
)

// QuestionLoader fetches the full question set for a game mode from a
// backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, gameMode string) ([]domain.Question, error)
}

// QuestionSource caches per-mode question sets in Redis
// (key: questions:{mode}, JSON array, TTL with jitter) and falls back to the
// loader on cache miss. Draws shuffle locally.
type QuestionSource struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionSource(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionSource {
	return &QuestionSource{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuestionSource) DrawQuestions(ctx context.Context, gameMode string, count int) ([]domain.Question, error) {
	set, err := s.questionSet(ctx, gameMode)
	if err != nil {
		return nil, err
	}
	return s.draw(set, count), nil
}

func (s *QuestionSource) questionSet(ctx context.Context, gameMode string) ([]domain.Question, error) {
	key := s.key(gameMode)

	if cached, err := s.client.Get(ctx, key).Result(); err == nil {
		var set []domain.Question
		if err := json.Unmarshal([]byte(cached), &set); err == nil && len(set) > 0 {
			return set, nil
		}
	}

	result, err, _ := s.sf.Do(gameMode, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := s.client.Get(ctx, key).Result(); err == nil {
			var set []domain.Question
			if err := json.Unmarshal([]byte(cached), &set); err == nil && len(set) > 0 {
				return set, nil
			}
		}

		set, err := s.loader.LoadQuestions(ctx, gameMode)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(set)
		if err != nil {
			return nil, fmt.Errorf("encode question set: %w", err)
		}
		_ = s.client.Set(ctx, key, data, s.ttlWithJitter()).Err()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (s *QuestionSource) draw(set []domain.Question, count int) []domain.Question {
	out := append([]domain.Question(nil), set...)

	s.rndMu.Lock()
	s.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.rndMu.Unlock()

	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out
}

func (s *QuestionSource) key(gameMode string) string {
	return "questions:" + gameMode
}

func (s *QuestionSource) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
