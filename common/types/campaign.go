package types

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"
)

// CampaignID identifies a campaign. The zero value means that a proof is not
// bound to any campaign.
type CampaignID Hash32

// EmptyCampaignID is the zero campaign id.
var EmptyCampaignID CampaignID

// Empty returns true if id is the zero value.
func (id CampaignID) Empty() bool {
	return id == EmptyCampaignID
}

// Bytes returns id as a byte slice.
func (id CampaignID) Bytes() []byte {
	return id[:]
}

// String returns hex encoding of the id.
func (id CampaignID) String() string {
	return Hash32(id).Hex()
}

// ShortString returns the first bytes of the id for logging.
func (id CampaignID) ShortString() string {
	return Hash32(id).Hex()[:10]
}

// Campaign is a budgeted reward pool that pays a fixed Reward for every successful
// verification bound to it, until SolvesRemaining reaches zero.
type Campaign struct {
	ID              CampaignID
	Owner           Address
	Label           string
	SolvesRemaining uint32
	Reward          *uint256.Int
}

// Depleted returns true if campaign can't pay anymore.
func (c *Campaign) Depleted() bool {
	return c.SolvesRemaining == 0
}

// MarshalLogObject implements logging interface.
func (c *Campaign) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("id", c.ID.String())
	encoder.AddString("owner", c.Owner.Hex())
	encoder.AddString("label", c.Label)
	encoder.AddUint32("solves_remaining", c.SolvesRemaining)
	if c.Reward != nil {
		encoder.AddString("reward", c.Reward.Dec())
	}
	return nil
}
