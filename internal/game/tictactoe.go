package game

import "github.com/Krishit-Shah/multi-game/internal/domain"

// метки выдаются по порядку входа активных игроков: первый - X
var markOrder = []string{"X", "O"}

// 8 выигрышных линий: 3 строки, 3 столбца, 2 диагонали
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// NewTicTacToe создает пустое поле. players - активные участники
// в порядке входа, первый ходит первым.
func NewTicTacToe(players []int64) *domain.TicTacToeState {
	marks := make(map[int64]string, len(players))
	for i, id := range players {
		if i < len(markOrder) {
			marks[id] = markOrder[i]
		}
	}
	return &domain.TicTacToeState{
		Turn:  players[0],
		Marks: marks,
		Order: append([]int64(nil), players...),
	}
}

// MoveOutcome - результат принятого хода
type MoveOutcome struct {
	Winner   int64
	Draw     bool
	Finished bool
}

// ApplyMove валидирует и применяет ход. Порядок проверок:
// очередь, границы, занятость. Любой отказ не меняет состояние.
func ApplyMove(s *domain.TicTacToeState, playerID int64, row, col int) (*MoveOutcome, error) {
	if s.Winner != 0 || s.Draw {
		return nil, ErrGameNotActive
	}
	if s.Turn != playerID {
		return nil, ErrNotYourTurn
	}
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return nil, ErrOutOfBounds
	}
	pos := row*3 + col
	if s.Board[pos] != "" {
		return nil, ErrCellOccupied
	}

	s.Board[pos] = s.Marks[playerID]

	out := &MoveOutcome{}
	if winningMark := scanLines(s.Board); winningMark != "" {
		s.Winner = playerID
		out.Winner = playerID
		out.Finished = true
		return out, nil
	}
	if boardFull(s.Board) {
		s.Draw = true
		out.Draw = true
		out.Finished = true
		return out, nil
	}

	s.Turn = nextTurn(s.Order, playerID)
	return out, nil
}

func scanLines(b [9]string) string {
	for _, line := range winLines {
		m := b[line[0]]
		if m != "" && m == b[line[1]] && m == b[line[2]] {
			return m
		}
	}
	return ""
}

func boardFull(b [9]string) bool {
	for _, c := range b {
		if c == "" {
			return false
		}
	}
	return true
}

// следующий активный игрок в порядке входа, с переходом по кругу
func nextTurn(order []int64, current int64) int64 {
	for i, id := range order {
		if id == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
