package scoring

import (
	"errors"
	"sync"

	"myLeadMarket/business/features"
	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"
)

// circuitErrorThreshold is the consecutive-error count that opens a
// vertical's breaker.
const circuitErrorThreshold = 5

// circuitBreaker tracks consecutive scoring errors per vertical. The
// breaker opens at the threshold and closes again on the first success.
type circuitBreaker struct {
	mu     sync.Mutex
	errors map[domain.Vertical]int
	open   map[domain.Vertical]bool
}

func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{
		errors: make(map[domain.Vertical]int),
		open:   make(map[domain.Vertical]bool),
	}
}

func (b *circuitBreaker) isOpen(v domain.Vertical) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open[v]
}

func (b *circuitBreaker) recordError(v domain.Vertical) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errors[v]++
	if b.errors[v] >= circuitErrorThreshold {
		b.open[v] = true
	}
}

func (b *circuitBreaker) recordSuccess(v domain.Vertical) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errors[v] = 0
	b.open[v] = false
}

func (b *circuitBreaker) state(v domain.Vertical) (open bool, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open[v], b.errors[v]
}

// errorKind maps a scoring error onto a bounded metric label set.
func errorKind(err error) string {
	switch {
	case errors.Is(err, features.ErrMissingColumns),
		errors.Is(err, features.ErrOutOfRange):
		return "feature_error"
	case errors.Is(err, ErrInvalidModelType),
		errors.Is(err, ErrVerticalNotLoaded),
		errors.Is(err, vertical.ErrPathNotFound):
		return "model_error"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}
