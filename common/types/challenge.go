package types

import (
	"errors"
	"math"

	"go.uber.org/zap/zapcore"
)

// ErrNonceOverflow is returned when an account exhausted its nonce space.
var ErrNonceOverflow = errors.New("nonce overflow")

// Challenge is the live (timestamp, nonce) pair an account must sign over to produce
// a valid proof. Exactly one challenge exists per account at a time.
type Challenge struct {
	Timestamp uint64
	Nonce     uint64
}

// Next returns the challenge issued after c was consumed at now.
func (c Challenge) Next(now uint64) (Challenge, error) {
	if c.Nonce == math.MaxUint64 {
		return Challenge{}, ErrNonceOverflow
	}
	return Challenge{Timestamp: now, Nonce: c.Nonce + 1}, nil
}

// MarshalLogObject implements logging interface.
func (c *Challenge) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("timestamp", c.Timestamp)
	encoder.AddUint64("nonce", c.Nonce)
	return nil
}
