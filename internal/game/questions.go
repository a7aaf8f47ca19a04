package game

import (
	"errors"
	"math/rand"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

var ErrPoolTooSmall = errors.New("question pool smaller than requested sample")

// встроенный пул вопросов; на игру выбирается случайная выборка
var questionPool = []domain.Question{
	{Prompt: "What is the capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Correct: 1},
	{Prompt: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Jupiter", "Mars", "Saturn"}, Correct: 2},
	{Prompt: "How many continents are there on Earth?", Options: []string{"5", "6", "7", "8"}, Correct: 2},
	{Prompt: "What is the largest ocean?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, Correct: 3},
	{Prompt: "Who painted the Mona Lisa?", Options: []string{"Van Gogh", "Da Vinci", "Picasso", "Monet"}, Correct: 1},
	{Prompt: "What is the chemical symbol for gold?", Options: []string{"Go", "Gd", "Au", "Ag"}, Correct: 2},
	{Prompt: "In which year did World War II end?", Options: []string{"1943", "1944", "1945", "1946"}, Correct: 2},
	{Prompt: "What is the smallest prime number?", Options: []string{"0", "1", "2", "3"}, Correct: 2},
	{Prompt: "Which language has the most native speakers?", Options: []string{"English", "Hindi", "Spanish", "Mandarin"}, Correct: 3},
	{Prompt: "What gas do plants absorb from the atmosphere?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"}, Correct: 2},
	{Prompt: "How many strings does a standard guitar have?", Options: []string{"4", "5", "6", "7"}, Correct: 2},
	{Prompt: "Which country hosted the 2016 Summer Olympics?", Options: []string{"China", "Brazil", "Russia", "UK"}, Correct: 1},
	{Prompt: "What is the longest river in the world?", Options: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, Correct: 1},
	{Prompt: "How many sides does a hexagon have?", Options: []string{"5", "6", "7", "8"}, Correct: 1},
	{Prompt: "Which element has the atomic number 1?", Options: []string{"Helium", "Oxygen", "Hydrogen", "Carbon"}, Correct: 2},
}

// SampleQuestions возвращает n случайных вопросов из пула.
// Выборка делается один раз при старте игры.
func SampleQuestions(n int) ([]domain.Question, error) {
	if n > len(questionPool) {
		return nil, ErrPoolTooSmall
	}
	idx := rand.Perm(len(questionPool))
	out := make([]domain.Question, n)
	for i := 0; i < n; i++ {
		out[i] = questionPool[idx[i]]
	}
	return out, nil
}
