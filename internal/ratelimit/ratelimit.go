package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Action names the operations protected by the limiter.
type Action string

const (
	ActionTranslation Action = "translation"
	ActionChatSend    Action = "chat"
	ActionRegister    Action = "register"
	ActionLogin       Action = "login"
	ActionTourRequest Action = "tour-request"
)

// Budget is the fixed-window configuration of one action.
type Budget struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultBudgets are the production budgets per action. Register is keyed
// by client IP, everything else by user id.
var DefaultBudgets = map[Action]Budget{
	ActionTranslation: {MaxRequests: 10, Window: time.Minute},
	ActionChatSend:    {MaxRequests: 5, Window: 10 * time.Second},
	ActionRegister:    {MaxRequests: 3, Window: time.Hour},
	ActionLogin:       {MaxRequests: 5, Window: 5 * time.Minute},
	ActionTourRequest: {MaxRequests: 5, Window: time.Hour},
}

// Result is the outcome of one Check call. ResetAt is always populated so
// callers can tell users when to retry.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by (action, identifier).
// Fixed-window deliberately admits bursts of up to 2x MaxRequests across a
// window boundary; acceptable at this scale.
type Limiter struct {
	mu      sync.Mutex
	store   map[string]*record
	budgets map[Action]Budget

	sweepEvery time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once

	// now is swappable in tests.
	now func() time.Time
}

// NewLimiter creates a limiter with the given budgets and starts the
// background sweep that purges expired windows every sweepEvery.
func NewLimiter(budgets map[Action]Budget, sweepEvery time.Duration) *Limiter {
	l := &Limiter{
		store:      make(map[string]*record),
		budgets:    budgets,
		sweepEvery: sweepEvery,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}
	go l.sweepLoop()
	return l
}

// NewDefaultLimiter creates a limiter with DefaultBudgets and the
// reference 60s sweep interval.
func NewDefaultLimiter() *Limiter {
	return NewLimiter(DefaultBudgets, time.Minute)
}

// Check applies one request against the window for (action, identifier).
// A rejected request is not charged against the count and does not reset
// the window.
func (l *Limiter) Check(action Action, identifier string) Result {
	budget, ok := l.budgets[action]
	if !ok {
		// Unconfigured actions are never limited.
		return Result{Allowed: true, Remaining: -1, ResetAt: l.now()}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := fmt.Sprintf("%s:%s", action, identifier)

	rec, exists := l.store[key]
	if !exists || now.After(rec.resetAt) {
		resetAt := now.Add(budget.Window)
		l.store[key] = &record{count: 1, resetAt: resetAt}
		return Result{Allowed: true, Remaining: budget.MaxRequests - 1, ResetAt: resetAt}
	}

	if rec.count >= budget.MaxRequests {
		return Result{Allowed: false, Remaining: 0, ResetAt: rec.resetAt}
	}

	rec.count++
	return Result{Allowed: true, Remaining: budget.MaxRequests - rec.count, ResetAt: rec.resetAt}
}

// Reset clears the window for one (action, identifier) pair.
func (l *Limiter) Reset(action Action, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.store, fmt.Sprintf("%s:%s", action, identifier))
}

// Stop terminates the background sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, rec := range l.store {
		if now.After(rec.resetAt) {
			delete(l.store, key)
		}
	}
}
