package game

import (
	"testing"
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{Prompt: "q0", Options: []string{"a", "b", "c", "d"}, Correct: 1},
		{Prompt: "q1", Options: []string{"a", "b", "c", "d"}, Correct: 3},
	}
}

func activeQuiz(t *testing.T) *domain.QuizState {
	t.Helper()
	s := NewQuiz(testQuestions())
	s.Phase = domain.PhaseQuestionActive
	return s
}

func TestSubmitAnswer_Accepted(t *testing.T) {
	s := activeQuiz(t)

	if !SubmitAnswer(s, 1, 0, 1, 2*time.Second) {
		t.Fatalf("ожидался принятый ответ")
	}
	if len(s.Answers) != 1 || s.Answers[0].ElapsedMs != 2000 {
		t.Fatalf("ответ записан неверно: %+v", s.Answers)
	}
}

func TestSubmitAnswer_DuplicateIgnored(t *testing.T) {
	s := activeQuiz(t)

	SubmitAnswer(s, 1, 0, 1, time.Second)
	if SubmitAnswer(s, 1, 0, 2, 2*time.Second) {
		t.Fatalf("повторный ответ того же раунда должен игнорироваться")
	}
	if len(s.Answers) != 1 || s.Answers[0].Option != 1 {
		t.Fatalf("дубликат не должен менять первый ответ: %+v", s.Answers)
	}
}

func TestSubmitAnswer_StaleIgnored(t *testing.T) {
	s := activeQuiz(t)

	if SubmitAnswer(s, 1, 1, 0, time.Second) {
		t.Fatalf("ответ на чужой раунд должен игнорироваться")
	}
	s.Phase = domain.PhaseResultsDisplay
	if SubmitAnswer(s, 1, 0, 0, time.Second) {
		t.Fatalf("ответ вне фазы вопроса должен игнорироваться")
	}
	if SubmitAnswer(activeQuiz(t), 1, 0, 9, time.Second) {
		t.Fatalf("вариант за пределами списка должен игнорироваться")
	}
}

func TestAllAnsweredAndMissing(t *testing.T) {
	s := activeQuiz(t)
	ids := []int64{1, 2, 3}

	SubmitAnswer(s, 1, 0, 0, time.Second)
	SubmitAnswer(s, 3, 0, 1, time.Second)

	if AllAnswered(s, ids) {
		t.Fatalf("игрок 2 еще не ответил")
	}
	missing := Missing(s, 0, ids)
	if len(missing) != 1 || missing[0] != 2 {
		t.Fatalf("ожидался пропуск только игрока 2, получили %v", missing)
	}

	SubmitAnswer(s, 2, 0, 2, time.Second)
	if !AllAnswered(s, ids) {
		t.Fatalf("ответили все трое")
	}
	if AllAnswered(s, nil) {
		t.Fatalf("пустой состав не считается ответившим")
	}
}

func TestScoreRound(t *testing.T) {
	s := activeQuiz(t)
	limit := 5 * time.Second

	SubmitAnswer(s, 1, 0, 1, 2*time.Second)          // верно, быстро
	SubmitAnswer(s, 2, 0, 1, 5*time.Second)          // верно, ровно на границе - бонус включительно
	SubmitAnswer(s, 3, 0, 1, 5*time.Second+time.Millisecond) // верно, но медленно
	SubmitAnswer(s, 4, 0, 0, time.Second)            // неверно

	points := ScoreRound(s, limit)

	if points[1] != CorrectPoints+FastBonus {
		t.Fatalf("быстрый верный ответ: ожидалось %d, получили %d", CorrectPoints+FastBonus, points[1])
	}
	if points[2] != CorrectPoints+FastBonus {
		t.Fatalf("ответ ровно на границе получает бонус, получили %d", points[2])
	}
	if points[3] != CorrectPoints {
		t.Fatalf("медленный верный ответ: ожидалось %d, получили %d", CorrectPoints, points[3])
	}
	if _, ok := points[4]; ok {
		t.Fatalf("неверный ответ не должен давать очков: %v", points)
	}
}

func TestAnswerKey(t *testing.T) {
	s := NewQuiz(testQuestions())
	key := AnswerKey(s)

	if len(key) != 2 {
		t.Fatalf("ключ должен покрывать все раунды, получили %d", len(key))
	}
	for i, entry := range key {
		if entry.Round != i || entry.Correct != s.Questions[i].Correct || entry.Prompt != s.Questions[i].Prompt {
			t.Fatalf("строка ключа %d не совпадает с вопросом: %+v", i, entry)
		}
	}
}

func TestSampleQuestions(t *testing.T) {
	qs, err := SampleQuestions(5)
	if err != nil {
		t.Fatalf("неожиданная ошибка выборки: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("ожидалось 5 вопросов, получили %d", len(qs))
	}
	seen := make(map[string]bool)
	for _, q := range qs {
		if seen[q.Prompt] {
			t.Fatalf("вопрос %q попал в выборку дважды", q.Prompt)
		}
		seen[q.Prompt] = true
	}

	if _, err := SampleQuestions(1000); err != ErrPoolTooSmall {
		t.Fatalf("ожидался ErrPoolTooSmall, получили %v", err)
	}
}
