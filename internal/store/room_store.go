package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

const (
	roomKeyPrefix = "room:"
	publicSetKey  = "rooms:public"
	roomTTL       = 24 * time.Hour
)

// RoomStore хранит документы комнат в redis как JSON.
// Это долговременная копия; авторитетное состояние живет в памяти.
type RoomStore struct {
	rdb *redis.Client
}

func NewRoomStore(rdb *redis.Client) *RoomStore {
	return &RoomStore{rdb: rdb}
}

func roomKey(code string) string {
	return roomKeyPrefix + code
}

// Load возвращает (nil, nil) если документа нет
func (s *RoomStore) Load(ctx context.Context, code string) (*domain.Room, error) {
	data, err := s.rdb.Get(ctx, roomKey(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("room load %s: %w", code, err)
	}

	var r domain.Room
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("room decode %s: %w", code, err)
	}
	return &r, nil
}

// Upsert пишет снимок и поддерживает индекс публичных комнат:
// в нем только открытые комнаты в waiting
func (s *RoomStore) Upsert(ctx context.Context, r *domain.Room) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("room encode %s: %w", r.Code, err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, roomKey(r.Code), data, roomTTL)
	if !r.Private && r.State == domain.StateWaiting {
		pipe.SAdd(ctx, publicSetKey, r.Code)
	} else {
		pipe.SRem(ctx, publicSetKey, r.Code)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("room upsert %s: %w", r.Code, err)
	}
	return nil
}

func (s *RoomStore) Delete(ctx context.Context, code string) error {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, roomKey(code))
	pipe.SRem(ctx, publicSetKey, code)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("room delete %s: %w", code, err)
	}
	return nil
}

// PublicCodes - коды открытых комнат для восстановления списка
func (s *RoomStore) PublicCodes(ctx context.Context) ([]string, error) {
	codes, err := s.rdb.SMembers(ctx, publicSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("public codes: %w", err)
	}
	return codes, nil
}
