package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session does not exist or already finished.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrPlayerNotFound is returned when the caller is not one of the session's two players.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrAlreadyQueued is returned when a player enqueues twice for the same game mode.
	ErrAlreadyQueued = errors.New("player already in matchmaking queue")
	// ErrInviteNotFound indicates the private room code is unknown or already consumed.
	ErrInviteNotFound = errors.New("private room invite not found")
	// ErrRoundNotOpen is returned for answers or jokers arriving outside an open round.
	ErrRoundNotOpen = errors.New("round is not open")
	// ErrAnswerAlreadySubmitted is returned when a player answers the same round twice.
	ErrAnswerAlreadySubmitted = errors.New("answer already submitted for this round")
	// ErrUnknownJoker indicates an unrecognized joker kind.
	ErrUnknownJoker = errors.New("unknown joker kind")
	// ErrJokerExhausted is returned when the player has no jokers of the requested kind left.
	ErrJokerExhausted = errors.New("no jokers of this kind remaining")
	// ErrModeUnavailable indicates the content source has no questions for a game mode.
	ErrModeUnavailable = errors.New("game mode unavailable")
)
