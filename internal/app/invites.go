package app

import (
	"context"
	"crypto/rand"
	"math/big"

	"football-duel-service/internal/domain"
)

// InviteDirectory maps short human-entered codes to a pending private room
// host. Consume must be atomic with the lookup so a code is claimed at most
// once; implementations live in internal/infra.
type InviteDirectory interface {
	// CreateInvite stores a pending invite under a fresh code and returns it.
	CreateInvite(ctx context.Context, gameMode string, host domain.PlayerInfo) (string, error)
	// ConsumeInvite atomically removes and returns the invite for a code.
	// Returns domain.ErrInviteNotFound for unknown or already-claimed codes.
	ConsumeInvite(ctx context.Context, code string) (domain.Invite, error)
}

// code alphabet omits easily confused characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the length of generated private room codes.
const InviteCodeLength = 6

// NewInviteCode returns a random room code. Collisions with live invites are
// handled by the directory regenerating, not by failing the caller.
func NewInviteCode() (string, error) {
	code := make([]byte, InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
