// Package engine verifies signed single-use proofs.
//
// A verification decodes the proof, checks it against the live challenge of the
// account, recovers and authorizes the signer, checks freshness against the window
// of the consumer, burns the challenge and pays the campaign reward if the proof
// references a campaign. All of it runs in one database transaction: a failed
// verification leaves no trace.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/campaign"
	"github.com/solve3/go-solve3/challenge"
	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/locks"
	"github.com/solve3/go-solve3/policy"
	"github.com/solve3/go-solve3/proof"
	"github.com/solve3/go-solve3/signers"
	"github.com/solve3/go-solve3/signing"
	"github.com/solve3/go-solve3/sql"
)

// errRejected rolls back the transaction of a failed verification.
var errRejected = errors.New("proof rejected")

// Opt for configuring Engine.
type Opt func(*Engine)

// WithLogger sets logger for the engine.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source. Defaults to the real clock.
func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithConfig sets engine configuration.
func WithConfig(cfg Config) Opt {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// Engine verifies proofs on behalf of consumers.
type Engine struct {
	logger *zap.Logger
	clock  clockwork.Clock
	cfg    Config
	db     *sql.Database

	signers    *signers.Registry
	challenges *challenge.Registry
	verifier   *signing.Verifier
	policy     *policy.Policy
	campaigns  *campaign.Ledger

	accountLocks  locks.Keyed[types.Address]
	campaignLocks locks.Keyed[types.CampaignID]
}

// New creates Engine on top of db. Signer membership is checked against
// registry and rewards are paid by ledger.
func New(db *sql.Database, registry *signers.Registry, ledger *campaign.Ledger, opts ...Opt) *Engine {
	e := &Engine{
		logger:    zap.NewNop(),
		clock:     clockwork.NewRealClock(),
		cfg:       DefaultConfig(),
		db:        db,
		signers:   registry,
		campaigns: ledger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.challenges = challenge.New(challenge.WithLogger(e.logger.Named("challenge")))
	e.verifier = signing.NewVerifier(registry, signing.WithVerifierLogger(e.logger.Named("verifier")))
	e.policy = policy.New(
		policy.WithLogger(e.logger.Named("policy")),
		policy.WithDefaultWindow(e.cfg.DefaultWindow()),
	)
	return e
}

func (e *Engine) now() uint64 {
	return uint64(e.clock.Now().Unix())
}

// Verify checks proof bytes of the given version for consumer. Rejected proofs are
// reported in the outcome; the error is returned only when the verification
// couldn't be completed, for example when the database fails.
func (e *Engine) Verify(ctx context.Context, version types.VersionTag, data []byte, consumer types.Address) (Outcome, error) {
	start := time.Now()
	now := e.now()

	p, err := proof.Decode(version, data)
	if err != nil {
		return e.report(consumer, Outcome{Status: DecodeError, Err: err}, start), nil
	}

	unlock := e.accountLocks.Lock(p.Account)
	defer unlock()
	if !p.Campaign.Empty() {
		unlockCampaign := e.campaignLocks.Lock(p.Campaign)
		defer unlockCampaign()
	}

	var outcome Outcome
	if err := e.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		var err error
		outcome, err = e.verify(tx, consumer, p, now)
		if err != nil {
			return err
		}
		if !outcome.Status.OK() {
			return errRejected
		}
		return nil
	}); err != nil && !errors.Is(err, errRejected) {
		e.logger.Error("verification failed",
			zap.Stringer("consumer", consumer),
			zap.Object("proof", p),
			zap.Error(err),
		)
		return Outcome{}, fmt.Errorf("verify proof of %s: %w", p.Account, err)
	}
	return e.report(consumer, outcome, start), nil
}

func (e *Engine) verify(tx sql.Executor, consumer types.Address, p *types.Proof, now uint64) (Outcome, error) {
	outcome := Outcome{Account: p.Account, Nonce: p.Nonce, Campaign: p.Campaign}
	reject := func(status Status, err error) (Outcome, error) {
		outcome.Status = status
		outcome.Err = err
		return outcome, nil
	}

	live, err := e.challenges.Challenge(tx, p.Account, now)
	if err != nil {
		return outcome, err
	}
	if live != p.Challenge() {
		return reject(ChallengeMismatch, challenge.ErrChallengeMismatch)
	}

	signer, err := e.verifier.Verify(tx, consumer, p)
	outcome.Signer = signer
	switch {
	case errors.Is(err, signing.ErrMalformedSignature):
		return reject(MalformedSignature, err)
	case errors.Is(err, signing.ErrUnknownSigner):
		return reject(UnknownSigner, err)
	case err != nil:
		return outcome, err
	}

	switch err := e.policy.Check(tx, consumer, p.Timestamp, now); {
	case errors.Is(err, policy.ErrStaleOrFutureProof):
		return reject(StaleOrFutureProof, err)
	case err != nil:
		return outcome, err
	}

	switch _, err := e.challenges.Consume(tx, p.Account, live, now); {
	case errors.Is(err, challenge.ErrChallengeMismatch), errors.Is(err, types.ErrNonceOverflow):
		return reject(ChallengeMismatch, err)
	case err != nil:
		return outcome, err
	}

	if p.Campaign.Empty() {
		outcome.Status = Verified
		return outcome, nil
	}
	reward, err := e.campaigns.Payout(tx, p.Campaign, p.Account)
	switch {
	case errors.Is(err, campaign.ErrUnknownCampaign):
		return reject(UnknownCampaign, err)
	case errors.Is(err, campaign.ErrDepletedCampaign):
		return reject(DepletedCampaign, err)
	case err != nil:
		return outcome, err
	}
	outcome.Status = Rewarded
	outcome.Reward = reward
	return outcome, nil
}

func (e *Engine) report(consumer types.Address, outcome Outcome, start time.Time) Outcome {
	verifications.WithLabelValues(outcome.Status.String()).Inc()
	verifyDuration.Observe(time.Since(start).Seconds())
	if outcome.Status == Rewarded {
		rewardsPaid.Inc()
	}
	if outcome.Status.OK() {
		e.logger.Info("proof verified", zap.Stringer("consumer", consumer), zap.Object("outcome", &outcome))
	} else {
		e.logger.Debug("proof rejected", zap.Stringer("consumer", consumer), zap.Object("outcome", &outcome))
	}
	return outcome
}

// Challenge returns the live challenge of account, issuing it on the first query.
func (e *Engine) Challenge(ctx context.Context, account types.Address) (types.Challenge, error) {
	now := e.now()
	unlock := e.accountLocks.Lock(account)
	defer unlock()
	var ch types.Challenge
	err := e.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		var err error
		ch, err = e.challenges.Challenge(tx, account, now)
		return err
	})
	return ch, err
}

// IsSigner reports whether id is an authorized signer.
func (e *Engine) IsSigner(id types.Address) (bool, error) {
	return e.signers.IsSigner(e.db, id)
}

// Campaign returns campaign by id. Fails with campaign.ErrUnknownCampaign.
func (e *Engine) Campaign(id types.CampaignID) (*types.Campaign, error) {
	return e.campaigns.Get(e.db, id)
}

// ActiveCampaigns returns ids of campaigns that still pay, in creation order.
func (e *Engine) ActiveCampaigns() ([]types.CampaignID, error) {
	return e.campaigns.Active(e.db)
}

// Window returns the freshness window of consumer.
func (e *Engine) Window(consumer types.Address) (types.Window, error) {
	return e.policy.Window(e.db, consumer)
}

// SetWindow replaces the window of consumer. The caller must be the consumer.
func (e *Engine) SetWindow(ctx context.Context, caller, consumer types.Address, w types.Window) error {
	return e.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		return e.policy.SetWindow(tx, caller, consumer, w)
	})
}

// CreateCampaign registers a campaign and escrows its budget. The caller must be
// the governance owner.
func (e *Engine) CreateCampaign(
	ctx context.Context,
	caller, owner types.Address,
	label string,
	solves uint32,
	reward *uint256.Int,
) (types.CampaignID, error) {
	var id types.CampaignID
	err := e.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = e.campaigns.Create(tx, caller, owner, label, solves, reward)
		return err
	})
	return id, err
}
