// Package challenge tracks the live (timestamp, nonce) challenge of every account.
//
// A challenge is created lazily on the first query and is replaced by the next one
// every time a proof built from it is consumed. A proof can therefore be accepted at
// most once, and only while its challenge is still the live one.
package challenge

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/sql/challenges"
)

// ErrChallengeMismatch is returned when supplied challenge is not the live challenge
// of the account. It doesn't tell which field was wrong.
var ErrChallengeMismatch = errors.New("challenge mismatch")

// Registry of account challenges.
type Registry struct {
	logger *zap.Logger
}

// Opt for configuring Registry.
type Opt func(*Registry)

// WithLogger sets logger for the registry.
func WithLogger(logger *zap.Logger) Opt {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates challenge registry.
func New(opts ...Opt) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Challenge returns the live challenge of the account. The first query for an
// account issues the challenge (now, 0).
func (r *Registry) Challenge(db sql.Executor, account types.Address, now uint64) (types.Challenge, error) {
	ch, err := challenges.Get(db, account)
	switch {
	case err == nil:
		return ch, nil
	case !errors.Is(err, sql.ErrNotFound):
		return types.Challenge{}, err
	}
	ch = types.Challenge{Timestamp: now}
	if err := challenges.Add(db, account, ch); err != nil {
		return types.Challenge{}, err
	}
	r.logger.Debug("challenge issued", zap.Stringer("account", account), zap.Object("challenge", &ch))
	return ch, nil
}

// Peek returns the live challenge without issuing one. Returns sql.ErrNotFound for
// accounts that never requested a challenge.
func (r *Registry) Peek(db sql.Executor, account types.Address) (types.Challenge, error) {
	return challenges.Get(db, account)
}

// Consume burns supplied challenge and issues the next one with timestamp now.
// It fails with ErrChallengeMismatch unless supplied equals the live challenge.
func (r *Registry) Consume(db sql.Executor, account types.Address, supplied types.Challenge, now uint64) (types.Challenge, error) {
	live, err := r.Challenge(db, account, now)
	if err != nil {
		return types.Challenge{}, err
	}
	if live != supplied {
		return types.Challenge{}, ErrChallengeMismatch
	}
	next, err := live.Next(now)
	if err != nil {
		return types.Challenge{}, fmt.Errorf("account %s: %w", account, err)
	}
	swapped, err := challenges.Replace(db, account, live, next)
	if err != nil {
		return types.Challenge{}, err
	}
	if !swapped {
		return types.Challenge{}, ErrChallengeMismatch
	}
	r.logger.Debug("challenge consumed",
		zap.Stringer("account", account),
		zap.Object("consumed", &live),
		zap.Object("next", &next),
	)
	return next, nil
}
