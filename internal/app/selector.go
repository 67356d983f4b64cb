package app

import (
	"math/rand"
	"sync"
	"time"

	"quizgate/internal/domain"
)

// Selector draws random question sequences and answer orderings. One
// instance is shared by all concurrent sessions; the mutex keeps the
// underlying source safe.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector builds a Selector around rnd. Passing nil seeds a fresh
// source; tests inject a fixed seed for determinism.
func NewSelector(rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rnd: rnd}
}

// Pick returns min(count, len(bank)) distinct questions drawn uniformly
// without replacement, in draw order.
func (s *Selector) Pick(bank []domain.Question, count int) []domain.Question {
	if count > len(bank) {
		count = len(bank)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make([]domain.Question, 0, count)
	seen := make(map[int]struct{}, count)
	for len(picked) < count {
		i := s.rnd.Intn(len(bank))
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		picked = append(picked, bank[i])
	}
	return picked
}

// Choices interleaves the correct answer among the wrong ones with a
// Fisher-Yates shuffle, so its position is not predictable.
func (s *Selector) Choices(q domain.Question) []string {
	choices := make([]string, 0, len(q.Wrong)+1)
	choices = append(choices, q.Wrong...)
	choices = append(choices, q.Correct)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(choices) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}
	return choices
}
