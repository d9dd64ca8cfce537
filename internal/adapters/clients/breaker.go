package clients

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without contacting the provider while its breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Circuit is the position of a provider's breaker.
type Circuit int

const (
	// CircuitClosed lets every request through.
	CircuitClosed Circuit = iota
	// CircuitOpen rejects requests until the cool-down elapses.
	CircuitOpen
	// CircuitHalfOpen lets a limited number of probes through.
	CircuitHalfOpen
)

func (c Circuit) String() string {
	switch c {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerSettings tunes a Breaker.
type BreakerSettings struct {
	// Threshold is the run of consecutive failures that opens the circuit.
	Threshold int
	// Cooldown is how long an open circuit rejects requests.
	Cooldown time.Duration
	// Probes is both the number of concurrent half-open requests and the
	// run of successes needed to close again.
	Probes int
}

// Breaker stops calling a provider that keeps failing. A provider that is
// down answers with ErrCircuitOpen immediately instead of costing the user a
// timeout on every new quote.
type Breaker struct {
	settings BreakerSettings
	clock    func() time.Time
	onChange func(from, to Circuit)

	mu       sync.Mutex
	circuit  Circuit
	streak   int
	inFlight int
	openedAt time.Time
}

// NewBreaker creates a closed breaker. Non-positive settings fall back to 1.
func NewBreaker(settings BreakerSettings) *Breaker {
	if settings.Threshold < 1 {
		settings.Threshold = 1
	}

	if settings.Probes < 1 {
		settings.Probes = 1
	}

	return &Breaker{settings: settings, clock: time.Now}
}

// Notify registers fn to run after every transition, outside the lock.
func (b *Breaker) Notify(fn func(from, to Circuit)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Acquire admits one request or returns ErrCircuitOpen. Every admitted
// request must be finished with Release.
func (b *Breaker) Acquire() error {
	b.mu.Lock()

	from := b.circuit
	switch b.circuit {
	case CircuitOpen:
		if b.clock().Sub(b.openedAt) < b.settings.Cooldown {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		b.move(CircuitHalfOpen)
		b.inFlight = 1
	case CircuitHalfOpen:
		if b.inFlight >= b.settings.Probes {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		b.inFlight++
	}

	to, hook := b.circuit, b.onChange
	b.mu.Unlock()

	b.fire(hook, from, to)

	return nil
}

// Release records the outcome of a request admitted by Acquire.
func (b *Breaker) Release(ok bool) {
	b.mu.Lock()

	from := b.circuit
	if b.circuit == CircuitHalfOpen && b.inFlight > 0 {
		b.inFlight--
	}

	switch {
	case ok && b.circuit == CircuitClosed:
		b.streak = 0
	case ok:
		b.streak++
		if b.circuit == CircuitHalfOpen && b.streak >= b.settings.Probes {
			b.move(CircuitClosed)
		}
	case b.circuit == CircuitHalfOpen:
		b.trip()
	default:
		b.streak++
		if b.circuit == CircuitClosed && b.streak >= b.settings.Threshold {
			b.trip()
		}
	}

	to, hook := b.circuit, b.onChange
	b.mu.Unlock()

	b.fire(hook, from, to)
}

// Circuit returns the breaker's current position.
func (b *Breaker) Circuit() Circuit {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.circuit
}

func (b *Breaker) trip() {
	b.openedAt = b.clock()
	b.move(CircuitOpen)
}

// move switches position and resets the streak. Caller holds mu.
func (b *Breaker) move(to Circuit) {
	if b.circuit == to {
		return
	}

	b.circuit = to
	b.streak = 0
	b.inFlight = 0
}

func (b *Breaker) fire(hook func(from, to Circuit), from, to Circuit) {
	if hook != nil && from != to {
		hook(from, to)
	}
}
