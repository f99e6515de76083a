package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"football-duel-service/internal/app"
	"football-duel-service/internal/domain"
)

// WSHandler upgrades HTTP requests to websockets and maps transport events
// onto engine calls.
type WSHandler struct {
	engine   *app.Engine
	registry *Registry
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.Engine, registry *Registry) *WSHandler {
	return &WSHandler{
		engine:   engine,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinMatchmakingPayload struct {
	GameMode    string `json:"gameMode"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type leaveMatchmakingPayload struct {
	GameMode string `json:"gameMode"`
}

type createRoomPayload struct {
	GameMode    string `json:"gameMode"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type joinRoomPayload struct {
	Code        string `json:"code"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type submitAnswerPayload struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	Answer    string `json:"answer"`
}

type useJokerPayload struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	JokerKind string `json:"jokerKind"`
}

// ServeWS wires one websocket connection into the engine. Identity comes
// from query params; a sessionId param reattaches a player who dropped
// mid-game within the grace window.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	displayName := r.URL.Query().Get("name")
	if playerID == "" || displayName == "" {
		http.Error(w, "missing playerId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.NewString()
	send := h.registry.Add(connectionID)
	writerDone := make(chan struct{})

	// Teardown order matters: detach from the engine, close the send channel
	// via the registry, then wait for the writer to drain.
	defer func() { <-writerDone }()
	defer h.registry.Remove(connectionID)
	defer h.engine.Disconnect(connectionID)

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	self := domain.PlayerInfo{ConnectionID: connectionID, PlayerID: playerID, DisplayName: displayName}

	if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
		if err := h.engine.Resume(sessionID, playerID, connectionID); err != nil {
			h.registry.Emit(connectionID, domain.EventError, domain.ErrorPayload{Message: err.Error()})
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if err := h.dispatch(r, self, inbound); err != nil {
			h.registry.Emit(connectionID, domain.EventError, domain.ErrorPayload{Message: err.Error()})
		}
	}
}

var errMalformedPayload = errors.New("malformed payload")

func (h *WSHandler) dispatch(r *http.Request, self domain.PlayerInfo, inbound inboundMessage) error {
	ctx := r.Context()

	switch inbound.Type {
	case "join_matchmaking":
		var p joinMatchmakingPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.GameMode == "" {
			return errMalformedPayload
		}
		return h.engine.JoinMatchmaking(ctx, p.GameMode, self)

	case "leave_matchmaking":
		var p leaveMatchmakingPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.GameMode == "" {
			return errMalformedPayload
		}
		h.engine.LeaveMatchmaking(p.GameMode, self.ConnectionID)
		return nil

	case "create_private_room":
		var p createRoomPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.GameMode == "" {
			return errMalformedPayload
		}
		return h.engine.CreatePrivateRoom(ctx, p.GameMode, self)

	case "join_private_room":
		var p joinRoomPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.Code == "" {
			return errMalformedPayload
		}
		return h.engine.JoinPrivateRoom(ctx, p.Code, self)

	case "submit_answer":
		var p submitAnswerPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.SessionID == "" {
			return errMalformedPayload
		}
		return h.engine.SubmitAnswer(ctx, p.SessionID, self.PlayerID, p.Answer)

	case "use_joker":
		var p useJokerPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.SessionID == "" {
			return errMalformedPayload
		}
		return h.engine.UseJoker(ctx, p.SessionID, self.PlayerID, domain.JokerKind(p.JokerKind))

	default:
		return errors.New("unsupported message type")
	}
}
