package entity

import "fmt"

// MinimumQuizSelection is the fewest non-empty selected word forms a quiz
// can start with.
const MinimumQuizSelection = 5

// QuizCandidate is one selectable word form of the quiz table.
type QuizCandidate struct {
	Selected bool
	Value    string
}

// QuizRow holds the candidates of one entry: dictionary form, definition,
// then every optional form slot of the entry's class.
type QuizRow []QuizCandidate

// RebuildForEntry derives the quiz row of entry with every candidate selected.
func RebuildForEntry(entry WordEntry) QuizRow {
	slots := entry.FormSlots()
	row := make(QuizRow, 0, 2+len(slots))
	row = append(row,
		QuizCandidate{Selected: true, Value: entry.DictionaryForm},
		QuizCandidate{Selected: true, Value: entry.Definition},
	)
	for _, slot := range slots {
		row = append(row, QuizCandidate{Selected: true, Value: slot.Value})
	}
	return row
}

// Clone returns an independent copy of the row.
func (r QuizRow) Clone() QuizRow {
	out := make(QuizRow, len(r))
	copy(out, r)
	return out
}

// SelectedValues returns the selected non-empty values, row by row and in
// slot order within a row.
func SelectedValues(rows []QuizRow) []string {
	var out []string
	for _, row := range rows {
		for _, c := range row {
			if c.Selected && c.Value != "" {
				out = append(out, c.Value)
			}
		}
	}
	return out
}

// SelectedCount counts selected non-empty values.
func SelectedCount(rows []QuizRow) int {
	n := 0
	for _, row := range rows {
		for _, c := range row {
			if c.Selected && c.Value != "" {
				n++
			}
		}
	}
	return n
}

// ValidateQuizSelection refuses selections below MinimumQuizSelection.
func ValidateQuizSelection(values []string) error {
	if len(values) < MinimumQuizSelection {
		return &ValidationError{
			Field:   "quiz_selection",
			Message: fmt.Sprintf("Please select at least %d words to include for the quiz.", MinimumQuizSelection),
		}
	}
	return nil
}
