package game

// Reject - ошибка валидации действия игрока. Доставляется только
// инициатору, состояние комнаты при этом не меняется.
type Reject struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Reject) Error() string {
	return e.Message
}

var (
	ErrGameNotActive = &Reject{Code: "game_not_active", Message: "game is not active"}
	ErrNotYourTurn   = &Reject{Code: "not_your_turn", Message: "not your turn"}
	ErrOutOfBounds   = &Reject{Code: "out_of_bounds", Message: "cell is out of bounds"}
	ErrCellOccupied  = &Reject{Code: "cell_occupied", Message: "cell is already occupied"}
	ErrStaleRound    = &Reject{Code: "stale_round", Message: "round is no longer active"}
	ErrBadOption     = &Reject{Code: "bad_option", Message: "answer option out of range"}
)
