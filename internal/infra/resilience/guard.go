package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned by Guard while the circuit is open.
var ErrUnavailable = errors.New("resilience: circuit open")

// BreakerPolicy tunes the circuit breaker. Zero fields take the defaults
// below.
type BreakerPolicy struct {
	// MinRequests is the number of calls in a window before the breaker
	// may trip. Default 5.
	MinRequests uint32
	// FailureRatio trips the breaker once reached. Default 0.6.
	FailureRatio float64
	// Window resets the closed-state counters. Default 30s.
	Window time.Duration
	// OpenFor is how long the breaker rejects calls before probing. Default 10s.
	OpenFor time.Duration
	// Probes is the number of calls let through while half-open. Default 3.
	Probes uint32

	// Expected classifies errors that say nothing about the dependency's
	// health, such as a missing row. They count as successes.
	Expected func(error) bool
	// OnStateChange is called on every transition.
	OnStateChange func(name, from, to string)
}

func (p BreakerPolicy) settings(name string) gobreaker.Settings {
	minRequests := p.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := p.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	window := p.Window
	if window <= 0 {
		window = 30 * time.Second
	}
	openFor := p.OpenFor
	if openFor <= 0 {
		openFor = 10 * time.Second
	}
	probes := p.Probes
	if probes == 0 {
		probes = 3
	}

	s := gobreaker.Settings{
		Name:        name,
		MaxRequests: probes,
		Interval:    window,
		Timeout:     openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= minRequests && float64(c.TotalFailures)/float64(c.Requests) >= ratio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (p.Expected != nil && p.Expected(err))
		},
	}
	if p.OnStateChange != nil {
		s.OnStateChange = func(name string, from, to gobreaker.State) {
			p.OnStateChange(name, from.String(), to.String())
		}
	}
	return s
}

// Bulkhead limits concurrent access to a resource.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead admitting at most limit concurrent holders
// (at least one).
func NewBulkhead(limit int) *Bulkhead {
	return &Bulkhead{sem: make(chan struct{}, max(limit, 1))}
}

// Acquire blocks until a slot is free or ctx is done.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (b *Bulkhead) Release() {
	<-b.sem
}

// InUse reports how many slots are taken.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// Guard runs calls to a dependency through a bulkhead and a circuit
// breaker. It never retries.
type Guard struct {
	cb *gobreaker.CircuitBreaker
	bh *Bulkhead
}

func NewGuard(name string, maxConcurrency int, p BreakerPolicy) *Guard {
	return &Guard{
		cb: gobreaker.NewCircuitBreaker(p.settings(name)),
		bh: NewBulkhead(maxConcurrency),
	}
}

// Do executes fn. It returns ErrUnavailable without calling fn while the
// breaker is open or the half-open probe quota is used up.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := g.bh.Acquire(ctx); err != nil {
		return err
	}
	defer g.bh.Release()

	_, err := g.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

// State returns the breaker state name (closed, half-open, open).
func (g *Guard) State() string {
	return g.cb.State().String()
}
