// Package campaign keeps budgeted reward campaigns and pays rewards out of them.
package campaign

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/sql/campaigns"
)

var (
	// ErrUnknownCampaign is returned for ids that were never created.
	ErrUnknownCampaign = errors.New("unknown campaign")
	// ErrDepletedCampaign is returned for campaigns without remaining solves.
	ErrDepletedCampaign = errors.New("depleted campaign")
	// ErrDuplicateCampaign is returned when a campaign with the same id exists.
	ErrDuplicateCampaign = errors.New("duplicate campaign")
	// ErrInvalidCampaign is returned for campaigns without solves or reward.
	ErrInvalidCampaign = errors.New("invalid campaign")
)

// ID derives campaign id from its label: keccak256(label). Campaigns with the same
// label collide.
func ID(label string) types.CampaignID {
	return PayloadID([]byte(label))
}

// PayloadID is keccak256 of an arbitrary payload. Off-chain tools use it to derive
// ids of campaigns they reference.
func PayloadID(payload []byte) types.CampaignID {
	return types.CampaignID(types.Keccak256(payload))
}

// Opt for configuring Ledger.
type Opt func(*Ledger)

// WithLogger sets logger for the ledger.
func WithLogger(logger *zap.Logger) Opt {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Ledger of campaigns. Rewards are paid out of the pool account, which is funded
// with the whole budget when a campaign is created.
type Ledger struct {
	logger   *zap.Logger
	bank     Bank
	governor governor
	pool     types.Address
}

// New creates Ledger that escrows budgets in pool.
func New(bank Bank, governor governor, pool types.Address, opts ...Opt) *Ledger {
	l := &Ledger{
		logger:   zap.NewNop(),
		bank:     bank,
		governor: governor,
		pool:     pool,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Pool returns the account that holds campaign budgets.
func (l *Ledger) Pool() types.Address {
	return l.pool
}

// Create registers campaign paying reward for each of solves verifications.
// The budget solves*reward is pulled from owner, who must have approved the pool
// to spend it. Only the governance owner may create campaigns.
func (l *Ledger) Create(
	db sql.Executor,
	caller, owner types.Address,
	label string,
	solves uint32,
	reward *uint256.Int,
) (types.CampaignID, error) {
	governance, err := l.governor.Owner()
	if err != nil {
		return types.EmptyCampaignID, err
	}
	if caller != governance {
		return types.EmptyCampaignID, fmt.Errorf("%w: %s can't create campaigns", types.ErrUnauthorized, caller)
	}
	if solves == 0 || reward == nil || reward.IsZero() {
		return types.EmptyCampaignID, fmt.Errorf("%w: %d solves of %v", ErrInvalidCampaign, solves, reward)
	}
	budget, err := types.MulAmount(reward, uint64(solves))
	if err != nil {
		return types.EmptyCampaignID, fmt.Errorf("%w: budget %w", ErrInvalidCampaign, err)
	}
	c := &types.Campaign{
		ID:              ID(label),
		Owner:           owner,
		Label:           label,
		SolvesRemaining: solves,
		Reward:          reward.Clone(),
	}
	if err := campaigns.Add(db, c); err != nil {
		if errors.Is(err, sql.ErrObjectExists) {
			return types.EmptyCampaignID, fmt.Errorf("%w: %s", ErrDuplicateCampaign, c.ID)
		}
		return types.EmptyCampaignID, err
	}
	if err := l.bank.TransferFrom(db, l.pool, owner, l.pool, budget); err != nil {
		return types.EmptyCampaignID, fmt.Errorf("fund campaign %s: %w", c.ID.ShortString(), err)
	}
	l.logger.Info("campaign created", zap.Object("campaign", c), zap.Stringer("budget", budget))
	return c.ID, nil
}

// Get campaign by id, depleted campaigns included.
func (l *Ledger) Get(db sql.Executor, id types.CampaignID) (*types.Campaign, error) {
	c, err := campaigns.Get(db, id)
	if errors.Is(err, sql.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCampaign, id)
	}
	return c, err
}

// Active returns ids of campaigns that still pay, in creation order.
func (l *Ledger) Active(db sql.Executor) ([]types.CampaignID, error) {
	return campaigns.Active(db)
}

// All returns every campaign in creation order.
func (l *Ledger) All(db sql.Executor) ([]*types.Campaign, error) {
	return campaigns.All(db)
}

// Payout transfers the reward of campaign id to recipient and consumes one solve.
// Campaign leaves the active set when its last solve is consumed.
func (l *Ledger) Payout(db sql.Executor, id types.CampaignID, recipient types.Address) (*uint256.Int, error) {
	c, err := l.Get(db, id)
	if err != nil {
		return nil, err
	}
	if c.Depleted() {
		return nil, fmt.Errorf("%w: %s", ErrDepletedCampaign, id)
	}
	if err := l.bank.Transfer(db, l.pool, recipient, c.Reward); err != nil {
		return nil, fmt.Errorf("pay campaign %s: %w", id.ShortString(), err)
	}
	ok, err := campaigns.Decrement(db, id, c.SolvesRemaining)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s changed concurrently", ErrDepletedCampaign, id)
	}
	l.logger.Debug("reward paid",
		zap.Stringer("campaign", id),
		zap.Stringer("recipient", recipient),
		zap.Stringer("reward", c.Reward),
		zap.Uint32("solves_remaining", c.SolvesRemaining-1),
	)
	if c.SolvesRemaining == 1 {
		l.logger.Info("campaign depleted", zap.Stringer("campaign", id))
	}
	return c.Reward, nil
}
