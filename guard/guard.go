// Package guard gates consumer operations behind proof verification.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/engine"
)

var (
	// ErrVerificationFailed is returned when the proof is rejected by the engine.
	ErrVerificationFailed = errors.New("guard: unable to verify message")
	// ErrVerificationEnabled is returned by operations allowed only while
	// verification is disabled.
	ErrVerificationEnabled = errors.New("guard: verification enabled")
)

//go:generate mockgen -typed -package=guard -destination=./mocks.go -source=./guard.go

type verifier interface {
	Verify(context.Context, types.VersionTag, []byte, types.Address) (engine.Outcome, error)
	SetWindow(context.Context, types.Address, types.Address, types.Window) error
}

// RejectedError carries the outcome of a rejected proof.
type RejectedError struct {
	Outcome engine.Outcome
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVerificationFailed, e.Outcome.Status)
}

func (e *RejectedError) Unwrap() []error {
	if e.Outcome.Err == nil {
		return []error{ErrVerificationFailed}
	}
	return []error{ErrVerificationFailed, e.Outcome.Err}
}

// Opt for configuring Guard.
type Opt func(*Guard)

// WithLogger sets logger for the guard.
func WithLogger(logger *zap.Logger) Opt {
	return func(g *Guard) {
		g.logger = logger
	}
}

// Guard is owned by a consumer. It submits proofs to the engine with the consumer
// identity bound in.
type Guard struct {
	logger   *zap.Logger
	consumer types.Address
	owner    types.Address
	verifier verifier
	disabled atomic.Bool
}

// New creates enabled Guard for consumer administered by owner.
func New(consumer, owner types.Address, verifier verifier, opts ...Opt) *Guard {
	g := &Guard{
		logger:   zap.NewNop(),
		consumer: consumer,
		owner:    owner,
		verifier: verifier,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Consumer identity of the guard.
func (g *Guard) Consumer() types.Address {
	return g.consumer
}

// Enabled reports whether proofs are verified.
func (g *Guard) Enabled() bool {
	return !g.disabled.Load()
}

// SetEnabled switches verification on or off. Only the owner may do it.
func (g *Guard) SetEnabled(caller types.Address, enabled bool) error {
	if caller != g.owner {
		return fmt.Errorf("%w: %s is not the guard owner", types.ErrUnauthorized, caller)
	}
	g.disabled.Store(!enabled)
	g.logger.Info("verification toggled", zap.Stringer("consumer", g.consumer), zap.Bool("enabled", enabled))
	return nil
}

// RequireDisabled fails unless verification is switched off.
func (g *Guard) RequireDisabled() error {
	if g.Enabled() {
		return ErrVerificationEnabled
	}
	return nil
}

// SetWindow configures the freshness window of the consumer. Only the owner may do it.
func (g *Guard) SetWindow(ctx context.Context, caller types.Address, w types.Window) error {
	if caller != g.owner {
		return fmt.Errorf("%w: %s is not the guard owner", types.ErrUnauthorized, caller)
	}
	return g.verifier.SetWindow(ctx, g.consumer, g.consumer, w)
}

// Verify checks the proof when verification is enabled. Otherwise the engine isn't
// consulted and the outcome is engine.Bypassed with a nil error.
// Rejected proofs fail with *RejectedError that wraps ErrVerificationFailed.
func (g *Guard) Verify(ctx context.Context, version types.VersionTag, data []byte) (engine.Outcome, error) {
	if !g.Enabled() {
		return engine.Outcome{Status: engine.Bypassed}, nil
	}
	outcome, err := g.verifier.Verify(ctx, version, data, g.consumer)
	if err != nil {
		return engine.Outcome{}, err
	}
	if !outcome.Status.OK() {
		return outcome, &RejectedError{Outcome: outcome}
	}
	return outcome, nil
}
