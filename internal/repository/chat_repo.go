package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// SaveMessage сохраняет сообщение как есть, без интерпретации
func (r *ChatRepository) SaveMessage(ctx context.Context, m *domain.ChatMessage) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO chat_messages (room_code, user_id, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.RoomCode, m.UserID, m.Username, m.Text, m.CreatedAt).Scan(&m.ID)
}

// ListByRoom - история чата комнаты, новые в конце
func (r *ChatRepository) ListByRoom(ctx context.Context, roomCode string, limit int) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_code, user_id, username, text, created_at
		FROM chat_messages
		WHERE room_code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, roomCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.UserID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// разворот: запрос отдает новые первыми
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
