package usecase

import (
	"github.com/samber/lo"

	"github.com/eslsoft/glostrainer/internal/entity"
)

// QuizUsecase exposes the quiz selection table. Row i always mirrors entry i
// of the list; column 0 is the dictionary form, column 1 the definition and
// the remaining columns the optional form slots of the entry's class.
type QuizUsecase interface {
	Rows() []entity.QuizRow
	SetSelected(row, col int, selected bool) error
	SelectAll(selected bool)
	SelectedValues() []string
	SelectedCount() int
	StartQuiz() ([]string, error)
}

// Rows returns a copy of the quiz table.
func (u *wordlistUsecase) Rows() []entity.QuizRow {
	u.mu.Lock()
	defer u.mu.Unlock()
	return lo.Map(u.quiz, func(r entity.QuizRow, _ int) entity.QuizRow { return r.Clone() })
}

func (u *wordlistUsecase) SetSelected(row, col int, selected bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if row < 0 || row >= len(u.quiz) {
		return &entity.IndexError{Index: row, Count: len(u.quiz)}
	}
	if col < 0 || col >= len(u.quiz[row]) {
		return &entity.IndexError{Index: col, Count: len(u.quiz[row])}
	}
	u.quiz[row][col].Selected = selected
	return nil
}

func (u *wordlistUsecase) SelectAll(selected bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, row := range u.quiz {
		for i := range row {
			row[i].Selected = selected
		}
	}
}

func (u *wordlistUsecase) SelectedValues() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return entity.SelectedValues(u.quiz)
}

func (u *wordlistUsecase) SelectedCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return entity.SelectedCount(u.quiz)
}

// StartQuiz returns the selected values, or a validation error when fewer
// than entity.MinimumQuizSelection are selected.
func (u *wordlistUsecase) StartQuiz() ([]string, error) {
	values := u.SelectedValues()
	if err := entity.ValidateQuizSelection(values); err != nil {
		u.logger.WithField("selected", len(values)).Info("quiz not started")
		return nil, err
	}
	u.logger.WithField("selected", len(values)).Info("quiz started")
	return values, nil
}
