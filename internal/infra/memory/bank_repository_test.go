package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizgate/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{
			"bank-1": sampleBank(),
		}),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "bank-1"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background(), "bank-1"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticBankLoaderUnknownID(t *testing.T) {
	loader := NewStaticBankLoader(map[string]domain.Bank{"bank-1": sampleBank()})
	_, err := loader.LoadBank(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "bank-1",
		Questions: []domain.Question{
			{Prompt: "What is 2 + 2?", Correct: "4", Wrong: []string{"3", "5"}},
		},
	}
}
