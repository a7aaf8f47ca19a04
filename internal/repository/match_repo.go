package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create пишет итог партии; счета - jsonb
func (r *MatchRepository) Create(ctx context.Context, res *domain.MatchResult) error {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO match_results (room_code, variant, winner_id, scores, finished_at)
		VALUES ($1, $2, $3, $4, $5)
	`, res.RoomCode, res.Variant, res.WinnerID, scores, res.FinishedAt)
	return err
}
