package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"football-duel-service/internal/app"
	"football-duel-service/internal/domain"
)

// InviteDirectory keeps pending private room invites in Redis. Consume is
// backed by GETDEL, so even across multiple engine instances a code can be
// claimed exactly once.
type InviteDirectory struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewInviteDirectory(client *redis.Client, ttl time.Duration) *InviteDirectory {
	return &InviteDirectory{client: client, ttl: ttl, now: time.Now}
}

func (d *InviteDirectory) CreateInvite(ctx context.Context, gameMode string, host domain.PlayerInfo) (string, error) {
	for {
		code, err := app.NewInviteCode()
		if err != nil {
			return "", err
		}

		invite := domain.Invite{
			Code:      code,
			GameMode:  gameMode,
			Host:      host,
			CreatedAt: d.now(),
		}
		data, err := json.Marshal(inviteRecord{
			GameMode:         invite.GameMode,
			HostConnectionID: host.ConnectionID,
			HostPlayerID:     host.PlayerID,
			HostDisplayName:  host.DisplayName,
			CreatedAt:        invite.CreatedAt,
		})
		if err != nil {
			return "", err
		}

		// SET NX keeps a live invite from being overwritten on code collision.
		ok, err := d.client.SetNX(ctx, d.key(code), data, d.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store invite: %w", err)
		}
		if ok {
			return code, nil
		}
	}
}

func (d *InviteDirectory) ConsumeInvite(ctx context.Context, code string) (domain.Invite, error) {
	data, err := d.client.GetDel(ctx, d.key(code)).Result()
	if err == redis.Nil {
		return domain.Invite{}, domain.ErrInviteNotFound
	}
	if err != nil {
		return domain.Invite{}, fmt.Errorf("consume invite: %w", err)
	}

	var record inviteRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return domain.Invite{}, fmt.Errorf("decode invite: %w", err)
	}
	return domain.Invite{
		Code:     code,
		GameMode: record.GameMode,
		Host: domain.PlayerInfo{
			ConnectionID: record.HostConnectionID,
			PlayerID:     record.HostPlayerID,
			DisplayName:  record.HostDisplayName,
		},
		CreatedAt: record.CreatedAt,
	}, nil
}

func (d *InviteDirectory) key(code string) string {
	return "room:invite:" + code
}

type inviteRecord struct {
	GameMode         string    `json:"gameMode"`
	HostConnectionID string    `json:"hostConnectionId"`
	HostPlayerID     string    `json:"hostPlayerId"`
	HostDisplayName  string    `json:"hostDisplayName"`
	CreatedAt        time.Time `json:"createdAt"`
}
