package memory

import (
	"context"
	"testing"
	"time"

	"football-duel-service/internal/domain"
)

func TestQuestionSourceCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"mystery-player": sampleQuestions(),
		}),
	}
	source := NewQuestionSource(loader, time.Minute)

	if _, err := source.DrawQuestions(context.Background(), "mystery-player", 2); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := source.DrawQuestions(context.Background(), "mystery-player", 2); err != nil {
		t.Fatalf("draw 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestDrawTruncatesAndKeepsSetIntact(t *testing.T) {
	loader := NewStaticQuestionLoader(map[string][]domain.Question{
		"mystery-player": sampleQuestions(),
	})
	source := NewQuestionSource(loader, time.Minute)

	drawn, err := source.DrawQuestions(context.Background(), "mystery-player", 2)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(drawn) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(drawn))
	}

	again, err := source.DrawQuestions(context.Background(), "mystery-player", 10)
	if err != nil {
		t.Fatalf("draw all: %v", err)
	}
	if len(again) != len(sampleQuestions()) {
		t.Fatalf("short set should return all %d questions, got %d", len(sampleQuestions()), len(again))
	}
}

func TestUnknownModeUnavailable(t *testing.T) {
	source := NewQuestionSource(NewStaticQuestionLoader(nil), time.Minute)
	if _, err := source.DrawQuestions(context.Background(), "nope", 5); err != domain.ErrModeUnavailable {
		t.Fatalf("expected ErrModeUnavailable, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
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
