package service

import (
	"context"
	"fmt"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/repository"
)

// ResultService - приемник итогов партий: строка истории плюс
// счетчики побед и сыгранных игр участников
type ResultService struct {
	users   *repository.UserRepository
	matches *repository.MatchRepository
}

func NewResultService(users *repository.UserRepository, matches *repository.MatchRepository) *ResultService {
	return &ResultService{users: users, matches: matches}
}

func (s *ResultService) SaveResult(ctx context.Context, res *domain.MatchResult) error {
	if err := s.matches.Create(ctx, res); err != nil {
		return fmt.Errorf("save match: %w", err)
	}

	ids := make([]int64, 0, len(res.Scores))
	for id := range res.Scores {
		ids = append(ids, id)
	}
	if err := s.users.BumpStats(ctx, res.WinnerID, ids); err != nil {
		return fmt.Errorf("bump stats: %w", err)
	}
	return nil
}
