package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateGuest регистрирует гостевую идентичность
func (r *UserRepository) CreateGuest(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	u.Username = username
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username)
		VALUES ($1)
		RETURNING id, created_at
	`, username).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

// получает пользователя по id; (nil, nil) если нет
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, wins, games_played, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Wins, &u.GamesPlayed, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// топ игроков по победам
func (r *UserRepository) GetTopByWins(ctx context.Context, limit int) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, wins, games_played, created_at
		FROM users
		ORDER BY wins DESC, games_played ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Wins, &u.GamesPlayed, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// BumpStats записывает сыгранную партию всем участникам и победу -
// победителю (если он есть)
func (r *UserRepository) BumpStats(ctx context.Context, winnerID *int64, playerIDs []int64) error {
	if _, err := r.db.Exec(ctx, `
		UPDATE users SET games_played = games_played + 1 WHERE id = ANY($1)
	`, playerIDs); err != nil {
		return err
	}
	if winnerID != nil {
		if _, err := r.db.Exec(ctx, `
			UPDATE users SET wins = wins + 1 WHERE id = $1
		`, *winnerID); err != nil {
			return err
		}
	}
	return nil
}
