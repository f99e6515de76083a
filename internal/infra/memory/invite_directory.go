package memory

import (
	"context"
	"sync"
	"time"

	"football-duel-service/internal/app"
	"football-duel-service/internal/domain"
)

// InviteDirectory is the in-memory implementation of app.InviteDirectory.
// Lookup and delete happen under one lock, so a code is consumed at most once.
type InviteDirectory struct {
	mu      sync.Mutex
	invites map[string]domain.Invite
	now     func() time.Time
}

func NewInviteDirectory() *InviteDirectory {
	return &InviteDirectory{
		invites: make(map[string]domain.Invite),
		now:     time.Now,
	}
}

func (d *InviteDirectory) CreateInvite(_ context.Context, gameMode string, host domain.PlayerInfo) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		code, err := app.NewInviteCode()
		if err != nil {
			return "", err
		}
		if _, taken := d.invites[code]; taken {
			continue
		}
		d.invites[code] = domain.Invite{
			Code:      code,
			GameMode:  gameMode,
			Host:      host,
			CreatedAt: d.now(),
		}
		return code, nil
	}
}

func (d *InviteDirectory) ConsumeInvite(_ context.Context, code string) (domain.Invite, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	invite, ok := d.invites[code]
	if !ok {
		return domain.Invite{}, domain.ErrInviteNotFound
	}
	delete(d.invites, code)
	return invite, nil
}
