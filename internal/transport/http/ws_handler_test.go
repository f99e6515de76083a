package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"football-duel-service/internal/app"
	"football-duel-service/internal/domain"
	"football-duel-service/internal/infra/memory"
)

func TestWebSocketMatchFlow(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.QuestionsPerMatch = 1
	policy.StartDelay = 0

	loader := memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"mystery-player": {
			{ID: "q1", Type: "mystery-player", Prompt: "Who wore the 10 at Napoli from 1984?", Answer: "Maradona", Options: []string{"Maradona", "Careca", "Zola", "Baggio"}},
		},
	})
	registry := NewRegistry()
	engine := app.NewEngine(
		memory.NewInviteDirectory(),
		memory.NewUserStore(),
		memory.NewQuestionSource(loader, time.Minute),
		registry,
		policy,
	)
	wsHandler := NewWSHandler(engine, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	base := "ws" + server.URL[len("http"):]
	alice := dial(t, base+"/ws?playerId=u1&name=Alice")
	defer alice.Close()
	bob := dial(t, base+"/ws?playerId=u2&name=Bob")
	defer bob.Close()

	join := map[string]any{"type": "join_matchmaking", "payload": map[string]any{"gameMode": "mystery-player"}}
	if err := alice.WriteJSON(join); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	searching := readUntil(t, alice, "searching")
	if searching["queuePosition"].(float64) != 1 {
		t.Fatalf("expected queue position 1, got %+v", searching)
	}

	if err := bob.WriteJSON(join); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	match := readUntil(t, alice, "match_found")
	sessionID := match["sessionId"].(string)
	if sessionID == "" || match["totalQuestions"].(float64) != 1 {
		t.Fatalf("unexpected match payload %+v", match)
	}
	readUntil(t, bob, "match_found")

	question := readUntil(t, alice, "new_question")
	q := question["question"].(map[string]any)
	if _, leaked := q["answer"]; leaked {
		t.Fatalf("correct answer leaked in new_question: %+v", q)
	}
	readUntil(t, bob, "new_question")

	answer := func(conn *websocket.Conn, text string) {
		if err := conn.WriteJSON(map[string]any{
			"type":    "submit_answer",
			"payload": map[string]any{"sessionId": sessionID, "answer": text},
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	answer(alice, "Maradona")
	answer(bob, "Careca")

	results := readUntil(t, alice, "round_results")
	if results["correctAnswer"].(string) != "Maradona" {
		t.Fatalf("unexpected results %+v", results)
	}

	over := readUntil(t, alice, "game_over")
	if over["winnerPlayerId"].(string) != "u1" {
		t.Fatalf("expected u1 win, got %+v", over)
	}
	rewards := over["rewards"].(map[string]any)
	winner := rewards["u1"].(map[string]any)
	if winner["isWinner"] != true {
		t.Fatalf("winner not flagged in rewards: %+v", rewards)
	}
}

func TestWebSocketRejectsMalformedEvents(t *testing.T) {
	registry := NewRegistry()
	engine := app.NewEngine(
		memory.NewInviteDirectory(),
		memory.NewUserStore(),
		memory.NewQuestionSource(memory.NewStaticQuestionLoader(nil), time.Minute),
		registry,
		domain.DefaultPolicy(),
	)
	wsHandler := NewWSHandler(engine, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dial(t, "ws"+server.URL[len("http"):]+"/ws?playerId=u1&name=Alice")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "join_matchmaking", "payload": map[string]any{}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	errPayload := readUntil(t, conn, "error")
	if errPayload["message"] == "" {
		t.Fatalf("expected error message, got %+v", errPayload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "no_such_event"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, "error")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

// readUntil reads messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg.Payload
		}
	}
}
