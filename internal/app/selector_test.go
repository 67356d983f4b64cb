package app

import (
	"math/rand"
	"sort"
	"testing"

	"quizgate/internal/domain"
)

func TestPickReturnsDistinctQuestions(t *testing.T) {
	bank := make([]domain.Question, 10)
	for i := range bank {
		bank[i] = domain.Question{Prompt: string(rune('a' + i)), Correct: "x", Wrong: []string{"y"}}
	}
	selector := NewSelector(rand.New(rand.NewSource(42)))

	for count := 1; count <= len(bank); count++ {
		picked := selector.Pick(bank, count)
		if len(picked) != count {
			t.Fatalf("count=%d: got %d questions", count, len(picked))
		}
		seen := make(map[string]struct{}, len(picked))
		for _, q := range picked {
			if _, dup := seen[q.Prompt]; dup {
				t.Fatalf("count=%d: duplicate question %q", count, q.Prompt)
			}
			seen[q.Prompt] = struct{}{}
		}
	}
}

func TestPickClampsToBankSize(t *testing.T) {
	bank := []domain.Question{
		{Prompt: "a", Correct: "x", Wrong: []string{"y"}},
		{Prompt: "b", Correct: "x", Wrong: []string{"y"}},
		{Prompt: "c", Correct: "x", Wrong: []string{"y"}},
	}
	selector := NewSelector(rand.New(rand.NewSource(7)))

	if got := selector.Pick(bank, 5); len(got) != 3 {
		t.Fatalf("expected all 3 questions for oversized count, got %d", len(got))
	}
	if got := selector.Pick(bank[:1], 1); len(got) != 1 {
		t.Fatalf("expected single question from single-entry bank, got %d", len(got))
	}
}

func TestChoicesPreserveTheMultiset(t *testing.T) {
	q := domain.Question{
		Prompt:  "pick one",
		Correct: "right",
		Wrong:   []string{"w1", "w2", "w3", "w4"},
	}
	selector := NewSelector(rand.New(rand.NewSource(3)))

	for i := 0; i < 50; i++ {
		choices := selector.Choices(q)
		if len(choices) != 5 {
			t.Fatalf("expected 5 choices, got %d", len(choices))
		}
		got := append([]string(nil), choices...)
		sort.Strings(got)
		want := []string{"right", "w1", "w2", "w3", "w4"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("choices %v do not match input multiset", choices)
			}
		}
	}
}

func TestChoicesMoveTheCorrectAnswer(t *testing.T) {
	q := domain.Question{Prompt: "p", Correct: "right", Wrong: []string{"w1", "w2", "w3"}}
	selector := NewSelector(rand.New(rand.NewSource(9)))

	positions := make(map[int]int)
	for i := 0; i < 200; i++ {
		for pos, c := range selector.Choices(q) {
			if c == "right" {
				positions[pos]++
			}
		}
	}
	if len(positions) < 2 {
		t.Fatalf("correct answer never moved: %v", positions)
	}
}
