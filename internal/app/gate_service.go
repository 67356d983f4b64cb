package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"quizgate/internal/domain"
)

// Messenger sends and edits private messages through the gateway bridge.
// SendPrivate returns an opaque handle used for later edits and answer
// routing.
type Messenger interface {
	SendPrivate(ctx context.Context, userID string, msg domain.Message) (string, error)
	Edit(ctx context.Context, handle string, msg domain.Message) error
	Ack(ctx context.Context, handle string) error
}

// BankRepository loads question bank content (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Settings are the validated quiz parameters the gate runs with. Immutable
// for the process lifetime.
type Settings struct {
	SourceMessageID string
	BankID          string
	TimeLimit       time.Duration
	MaxWrongAnswers int
	QuestionCount   int
	Target          domain.RoleTarget
}

// GateService runs one quiz session per user: admission, the question loop
// racing against the deadline, and the pass/fail resolution.
type GateService struct {
	settings  Settings
	ledger    *CooldownLedger
	bank      BankRepository
	selector  *Selector
	directory Directory
	mutator   *AccessMutator
	messenger Messenger
	now       func() time.Time

	mu       sync.Mutex
	active   map[string]*session
	byHandle map[string]*session
}

// session is the per-user quiz state. It exists only while one attempt is
// running and is never persisted.
type session struct {
	userID  string
	handle  string
	answers chan string
}

func NewGateService(settings Settings, ledger *CooldownLedger, bank BankRepository, selector *Selector, directory Directory, messenger Messenger) *GateService {
	return newGateService(settings, ledger, bank, selector, directory, messenger, time.Now)
}

// NewGateServiceWithClock is test-only for deterministic deadlines.
func NewGateServiceWithClock(settings Settings, ledger *CooldownLedger, bank BankRepository, selector *Selector, directory Directory, messenger Messenger, now func() time.Time) *GateService {
	return newGateService(settings, ledger, bank, selector, directory, messenger, now)
}

func newGateService(settings Settings, ledger *CooldownLedger, bank BankRepository, selector *Selector, directory Directory, messenger Messenger, now func() time.Time) *GateService {
	return &GateService{
		settings:  settings,
		ledger:    ledger,
		bank:      bank,
		selector:  selector,
		directory: directory,
		mutator:   NewAccessMutator(directory, settings.Target),
		messenger: messenger,
		now:       now,
		active:    make(map[string]*session),
		byHandle:  make(map[string]*session),
	}
}

// HandleTrigger runs one full quiz attempt for userID. It blocks until the
// session resolves, so callers dispatch it on its own goroutine. Triggers
// for other source messages are ignored. Admission rejections come back as
// the domain sentinel errors; none of them are fatal.
func (g *GateService) HandleTrigger(ctx context.Context, userID, sourceMessageID string) error {
	if sourceMessageID != g.settings.SourceMessageID {
		return nil
	}

	sess, ok := g.reserve(userID)
	if !ok {
		return domain.ErrSessionActive
	}
	defer g.release(sess)

	alreadyAdded, alreadyRemoved, err := g.roleState(ctx, userID)
	if err != nil {
		return err
	}
	if satisfied(g.settings.Target, alreadyAdded, alreadyRemoved) {
		return domain.ErrRoleStateSatisfied
	}

	now := g.now()
	if until, locked := g.ledger.Status(userID, now); locked {
		// Best-effort notice; users with closed DMs just miss it.
		if _, err := g.messenger.SendPrivate(ctx, userID, cooldownMessage(until)); err != nil {
			log.Printf("cooldown notice for %s: %v", userID, err)
		}
		return domain.ErrCooldownActive
	}

	bank, err := g.bank.GetBank(ctx, g.settings.BankID)
	if err != nil {
		return fmt.Errorf("load bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return domain.ErrBankEmpty
	}

	questions := g.selector.Pick(bank.Questions, g.settings.QuestionCount)
	deadline := now.Add(g.settings.TimeLimit)

	current, remaining := questions[0], questions[1:]
	handle, err := g.messenger.SendPrivate(ctx, userID, questionMessage(current, g.selector.Choices(current), deadline))
	if err != nil {
		// The user likely rejects private messages; no session outcome.
		return nil
	}
	g.bind(sess, handle)

	passed, err := g.run(ctx, sess, current, remaining, deadline)
	if err != nil {
		return err
	}

	if !passed {
		until, err := g.ledger.RecordFailure(ctx, userID, g.now())
		if err != nil {
			log.Printf("record failure for %s: %v", userID, err)
		}
		if err := g.messenger.Edit(ctx, sess.handle, failMessage(until)); err != nil {
			log.Printf("failure notice for %s: %v", userID, err)
		}
		return nil
	}

	if err := g.ledger.Clear(ctx, userID); err != nil {
		log.Printf("clear cooldown for %s: %v", userID, err)
	}
	granted := g.mutator.Apply(ctx, userID, alreadyAdded, alreadyRemoved)
	if err := g.messenger.Edit(ctx, sess.handle, passMessage(granted)); err != nil {
		log.Printf("pass notice for %s: %v", userID, err)
	}
	return nil
}

// run drives the question loop until an outcome: the deadline timer, strike
// exhaustion and question exhaustion race over a single select. Strike
// exhaustion fails immediately; a timeout with zero answers fails the same
// way.
func (g *GateService) run(ctx context.Context, sess *session, current domain.Question, remaining []domain.Question, deadline time.Time) (bool, error) {
	timer := time.NewTimer(deadline.Sub(g.now()))
	defer timer.Stop()

	strikes := 0
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
			return false, nil
		case answer := <-sess.answers:
			if err := g.messenger.Ack(ctx, sess.handle); err != nil {
				log.Printf("ack for %s: %v", sess.userID, err)
			}
			if answer != current.Correct {
				strikes++
			}
			if strikes > g.settings.MaxWrongAnswers {
				return false, nil
			}
			if len(remaining) == 0 {
				return true, nil
			}
			current, remaining = remaining[0], remaining[1:]
			if err := g.messenger.Edit(ctx, sess.handle, questionMessage(current, g.selector.Choices(current), deadline)); err != nil {
				log.Printf("edit question for %s: %v", sess.userID, err)
			}
		}
	}
}

// HandleAnswer routes an answer-selection event to its session. Events for
// resolved sessions, unknown messages or foreign users are dropped; the
// registry lookup is what makes late or duplicate resolutions impossible.
func (g *GateService) HandleAnswer(handle, userID, answer string) {
	g.mu.Lock()
	sess, ok := g.byHandle[handle]
	g.mu.Unlock()
	if !ok || sess.userID != userID {
		return
	}
	select {
	case sess.answers <- answer:
	default:
		// A full buffer means the user is outpacing the loop; dropping keeps
		// the bridge read loop from blocking.
	}
}

// roleState reads the user's directory membership once at admission; the
// flags are cached for the idempotent mutation after a pass.
func (g *GateService) roleState(ctx context.Context, userID string) (alreadyAdded, alreadyRemoved bool, err error) {
	target := g.settings.Target
	if target.AddRoleID != "" {
		has, err := g.directory.HasRole(ctx, userID, target.AddRoleID)
		if err != nil {
			return false, false, fmt.Errorf("read role state: %w", err)
		}
		alreadyAdded = has
	}
	if target.RemoveRoleID != "" {
		has, err := g.directory.HasRole(ctx, userID, target.RemoveRoleID)
		if err != nil {
			return false, false, fmt.Errorf("read role state: %w", err)
		}
		alreadyRemoved = !has
	}
	return alreadyAdded, alreadyRemoved, nil
}

// satisfied reproduces the exact admission table for partial add/remove
// configurations. The asymmetry is intended; do not simplify.
func satisfied(target domain.RoleTarget, alreadyAdded, alreadyRemoved bool) bool {
	switch {
	case alreadyAdded && alreadyRemoved:
		return true
	case alreadyAdded && target.RemoveRoleID == "":
		return true
	case alreadyRemoved && target.AddRoleID == "":
		return true
	}
	return false
}

// reserve performs the check-and-insert that upholds "at most one session
// per user" under concurrent triggers.
func (g *GateService) reserve(userID string) (*session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[userID]; ok {
		return nil, false
	}
	sess := &session{userID: userID, answers: make(chan string, 8)}
	g.active[userID] = sess
	return sess, true
}

func (g *GateService) bind(sess *session, handle string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess.handle = handle
	g.byHandle[handle] = sess
}

// release drops the session on every exit path, so late answer events are
// ignored and the user may trigger again.
func (g *GateService) release(sess *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, sess.userID)
	if sess.handle != "" {
		delete(g.byHandle, sess.handle)
	}
}
