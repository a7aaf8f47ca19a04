package game

import (
	"errors"
	"testing"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

func mustMove(t *testing.T, s *domain.TicTacToeState, playerID int64, row, col int) *MoveOutcome {
	t.Helper()
	out, err := ApplyMove(s, playerID, row, col)
	if err != nil {
		t.Fatalf("неожиданный отказ хода %d:(%d,%d): %v", playerID, row, col, err)
	}
	return out
}

func TestNewTicTacToe(t *testing.T) {
	s := NewTicTacToe([]int64{1, 2})

	if s.Turn != 1 {
		t.Fatalf("первым ходит вошедший первым, получили %d", s.Turn)
	}
	if s.Marks[1] != "X" || s.Marks[2] != "O" {
		t.Fatalf("метки выдаются по порядку входа: %v", s.Marks)
	}
	for i, c := range s.Board {
		if c != "" {
			t.Fatalf("поле должно быть пустым, клетка %d = %q", i, c)
		}
	}
}

func TestApplyMove_TurnRotation(t *testing.T) {
	s := NewTicTacToe([]int64{1, 2})

	mustMove(t, s, 1, 0, 0)
	if s.Turn != 2 {
		t.Fatalf("после хода первого очередь второго, получили %d", s.Turn)
	}
	mustMove(t, s, 2, 1, 1)
	if s.Turn != 1 {
		t.Fatalf("очередь должна вернуться к первому, получили %d", s.Turn)
	}
}

func TestApplyMove_WinRow(t *testing.T) {
	s := NewTicTacToe([]int64{1, 2})

	mustMove(t, s, 1, 0, 0)
	mustMove(t, s, 2, 1, 0)
	mustMove(t, s, 1, 0, 1)
	mustMove(t, s, 2, 1, 1)
	out := mustMove(t, s, 1, 0, 2)

	if !out.Finished || out.Winner != 1 {
		t.Fatalf("ожидалась победа игрока 1, получили %+v", out)
	}
	if s.Winner != 1 {
		t.Fatalf("победитель не зафиксирован в состоянии: %d", s.Winner)
	}

	// партия закончена, ходы больше не принимаются
	if _, err := ApplyMove(s, 2, 2, 2); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("ожидался ErrGameNotActive, получили %v", err)
	}
}

func TestApplyMove_Draw(t *testing.T) {
	s := NewTicTacToe([]int64{1, 2})

	// X O X / X O O / O X X - ни одной линии
	moves := []struct {
		player   int64
		row, col int
	}{
		{1, 0, 0}, {2, 0, 1}, {1, 0, 2},
		{2, 1, 1}, {1, 1, 0}, {2, 1, 2},
		{1, 2, 1}, {2, 2, 0}, {1, 2, 2},
	}
	var out *MoveOutcome
	for _, mv := range moves {
		out = mustMove(t, s, mv.player, mv.row, mv.col)
	}

	if !out.Finished || !out.Draw || out.Winner != 0 {
		t.Fatalf("ожидалась ничья, получили %+v", out)
	}
	if !s.Draw || s.Winner != 0 {
		t.Fatalf("ничья не зафиксирована в состоянии: draw=%v winner=%d", s.Draw, s.Winner)
	}
}

func TestApplyMove_Rejections(t *testing.T) {
	s := NewTicTacToe([]int64{1, 2})
	mustMove(t, s, 1, 0, 0)

	cases := []struct {
		name     string
		player   int64
		row, col int
		want     error
	}{
		{"чужая очередь", 1, 1, 1, ErrNotYourTurn},
		{"занятая клетка", 2, 0, 0, ErrCellOccupied},
		{"за границей поля", 2, 3, 0, ErrOutOfBounds},
		{"отрицательная координата", 2, 0, -1, ErrOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := s.Board
			turn := s.Turn
			if _, err := ApplyMove(s, tc.player, tc.row, tc.col); !errors.Is(err, tc.want) {
				t.Fatalf("ожидался %v, получили %v", tc.want, err)
			}
			// отказ не меняет состояние
			if s.Board != before || s.Turn != turn {
				t.Fatalf("отказ изменил состояние: board=%v turn=%d", s.Board, s.Turn)
			}
		})
	}
}
