// Package policy keeps the freshness window of every consumer.
package policy

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/sql/policies"
)

// ErrStaleOrFutureProof is returned for proofs outside of the consumer window,
// both issued before ValidFrom and expired.
var ErrStaleOrFutureProof = errors.New("stale or future proof")

// ErrInvalidWindow is returned for windows with a negative or sub-second period.
var ErrInvalidWindow = errors.New("invalid window")

// DefaultWindow applies to consumers that never configured their own.
func DefaultWindow() types.Window {
	return types.Window{ValidPeriod: 5 * time.Minute}
}

// Opt for configuring Policy.
type Opt func(*Policy)

// WithLogger sets logger for the policy.
func WithLogger(logger *zap.Logger) Opt {
	return func(p *Policy) {
		p.logger = logger
	}
}

// WithDefaultWindow overwrites window of consumers without configuration.
func WithDefaultWindow(w types.Window) Opt {
	return func(p *Policy) {
		p.fallback = w
	}
}

// Policy checks proof timestamps against the window of the consumer.
type Policy struct {
	logger   *zap.Logger
	fallback types.Window
}

// New creates Policy.
func New(opts ...Opt) *Policy {
	p := &Policy{
		logger:   zap.NewNop(),
		fallback: DefaultWindow(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Window returns the window of the consumer.
func (p *Policy) Window(db sql.Executor, consumer types.Address) (types.Window, error) {
	w, err := policies.Get(db, consumer)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return p.fallback, nil
	case err != nil:
		return types.Window{}, err
	}
	return w, nil
}

// SetWindow replaces the window of consumer. Only the consumer itself may
// change its window.
func (p *Policy) SetWindow(db sql.Executor, caller, consumer types.Address, w types.Window) error {
	if caller != consumer {
		return fmt.Errorf("%w: %s can't configure %s", types.ErrUnauthorized, caller, consumer)
	}
	if w.ValidPeriod < 0 || w.ValidPeriod%time.Second != 0 {
		return fmt.Errorf("%w: period %s", ErrInvalidWindow, w.ValidPeriod)
	}
	if err := policies.Set(db, consumer, w); err != nil {
		return err
	}
	p.logger.Info("consumer window updated",
		zap.Stringer("consumer", consumer),
		zap.Uint64("valid_from", w.ValidFrom),
		zap.Duration("valid_period", w.ValidPeriod),
	)
	return nil
}

// IsFresh reports whether timestamp is inside the window of consumer at now.
func (p *Policy) IsFresh(db sql.Executor, consumer types.Address, timestamp, now uint64) (bool, error) {
	w, err := p.Window(db, consumer)
	if err != nil {
		return false, err
	}
	return w.Fresh(timestamp, now), nil
}

// Check is IsFresh that fails with ErrStaleOrFutureProof.
func (p *Policy) Check(db sql.Executor, consumer types.Address, timestamp, now uint64) error {
	fresh, err := p.IsFresh(db, consumer, timestamp, now)
	if err != nil {
		return err
	}
	if !fresh {
		return ErrStaleOrFutureProof
	}
	return nil
}
