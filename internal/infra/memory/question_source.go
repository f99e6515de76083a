package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"football-duel-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the full question set for a game mode from a
// backing store (postgres, a generator, etc).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, gameMode string) ([]domain.Question, error)
}

// QuestionSource caches per-mode question sets with TTL and serves shuffled
// draws from them. Concurrent cache misses for the same mode are collapsed
// with singleflight.
type QuestionSource struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionSource(loader QuestionLoader, ttl time.Duration) *QuestionSource {
	return &QuestionSource{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
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
	now := s.clock()

	s.mu.RLock()
	if entry, ok := s.cache[gameMode]; ok && entry.expiresAt.After(now) {
		s.mu.RUnlock()
		return entry.questions, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do(gameMode, func() (interface{}, error) {
		now := s.clock()
		s.mu.RLock()
		if entry, ok := s.cache[gameMode]; ok && entry.expiresAt.After(now) {
			s.mu.RUnlock()
			return entry.questions, nil
		}
		s.mu.RUnlock()

		questions, err := s.loader.LoadQuestions(ctx, gameMode)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[gameMode] = cachedSet{questions: questions, expiresAt: now.Add(s.ttlWithJitter())}
		s.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// draw returns up to count questions in a fresh random order.
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

func (s *QuestionSource) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves question sets from an in-memory registry keyed
// by game mode. Each entry plays the role of a mode-specific generator; the
// CLI seeds it with the built-in modes when postgres is not configured.
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, gameMode string) ([]domain.Question, error) {
	if set, ok := l.sets[gameMode]; ok && len(set) > 0 {
		return set, nil
	}
	return nil, domain.ErrModeUnavailable
}
