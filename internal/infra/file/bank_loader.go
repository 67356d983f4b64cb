package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quizgate/internal/domain"
)

// BankLoader reads a question array from a JSON file. The file holds a
// bare array of {question, correct, wrong[]} entries; the configured bank
// ID is attached on load.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read question file: %w", err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("decode question file: %w", err)
	}
	for i, q := range questions {
		if q.Prompt == "" || q.Correct == "" {
			return domain.Bank{}, fmt.Errorf("question %d: prompt and correct answer are required", i)
		}
		if len(q.Wrong) < 1 || len(q.Wrong) > 4 {
			return domain.Bank{}, fmt.Errorf("question %d: wrong answers must number 1 to 4, got %d", i, len(q.Wrong))
		}
	}
	return domain.Bank{ID: bankID, Questions: questions}, nil
}
