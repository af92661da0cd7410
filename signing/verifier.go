package signing

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

// ErrUnknownSigner is returned when signature recovers to an address that is not
// an authorized signer. A proof tampered with after signing recovers to a random
// address, so it fails with this error too.
var ErrUnknownSigner = errors.New("unknown signer")

// VerifierOpt for configuring Verifier.
type VerifierOpt func(*Verifier)

// WithVerifierLogger sets logger for the verifier.
func WithVerifierLogger(logger *zap.Logger) VerifierOpt {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// Verifier checks that a proof was signed by an authorized signer.
type Verifier struct {
	logger  *zap.Logger
	members membership
}

// NewVerifier creates verifier that checks recovered addresses against members.
func NewVerifier(members membership, opts ...VerifierOpt) *Verifier {
	v := &Verifier{
		logger:  zap.NewNop(),
		members: members,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify recomputes the digest of p bound to consumer, recovers the signer and
// checks that it is authorized.
func (v *Verifier) Verify(db sql.Executor, consumer types.Address, p *types.Proof) (types.Address, error) {
	digest, err := Digest(p.Version, consumer, p)
	if err != nil {
		return types.Address{}, err
	}
	signer, err := Recover(digest, p.Signature)
	if err != nil {
		return types.Address{}, err
	}
	ok, err := v.members.IsSigner(db, signer)
	if err != nil {
		return types.Address{}, fmt.Errorf("check signer %s: %w", signer, err)
	}
	if !ok {
		v.logger.Debug("proof signed by unknown signer",
			zap.Stringer("signer", signer),
			zap.Stringer("consumer", consumer),
			zap.Object("proof", p),
		)
		return signer, ErrUnknownSigner
	}
	return signer, nil
}
