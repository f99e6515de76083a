package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"football-duel-service/internal/domain"
	"football-duel-service/internal/infra/memory"
)

func TestQuestionSourceCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"mystery-player": sampleQuestions(),
		}),
	}
	source := NewQuestionSource(newClient(mr), loader, time.Minute)

	drawn, err := source.DrawQuestions(context.Background(), "mystery-player", 2)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(drawn) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(drawn))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("questions:mystery-player") {
		t.Fatalf("expected cached question set in redis")
	}

	// Second draw hits the redis cache.
	if _, err := source.DrawQuestions(context.Background(), "mystery-player", 2); err != nil {
		t.Fatalf("draw 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestQuestionSourceUnknownMode(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := NewQuestionSource(newClient(mr), memory.NewStaticQuestionLoader(nil), time.Minute)
	if _, err := source.DrawQuestions(context.Background(), "nope", 3); err != domain.ErrModeUnavailable {
		t.Fatalf("expected ErrModeUnavailable, got %v", err)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, gameMode string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, gameMode)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Type: "mystery-player", Prompt: "Who wore the 10 at Napoli from 1984?", Answer: "Maradona", Options: []string{"Maradona", "Careca", "Zola", "Baggio"}},
		{ID: "q2", Type: "mystery-player", Prompt: "Top scorer of the 2014 World Cup?", Answer: "James Rodriguez", Options: []string{"James Rodriguez", "Muller", "Messi", "Neymar"}},
		{ID: "q3", Type: "mystery-player", Prompt: "Who scored the 'Hand of God' goal?", Answer: "Maradona", Options: []string{"Maradona", "Pele", "Valdano", "Burruchaga"}},
	}
}
