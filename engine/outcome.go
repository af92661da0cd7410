package engine

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"

	"github.com/solve3/go-solve3/common/types"
)

// Status of a verification.
type Status uint8

const (
	// Unverified is the zero status. It is carried by outcomes of calls that didn't
	// complete and is never OK.
	Unverified Status = iota
	// Bypassed is reported by consumers that switched verification off. No proof was
	// checked, so it is not OK either.
	Bypassed
	// Verified proof without a campaign.
	Verified
	// Rewarded is a verified proof that was paid by its campaign.
	Rewarded
	DecodeError
	ChallengeMismatch
	MalformedSignature
	UnknownSigner
	StaleOrFutureProof
	UnknownCampaign
	DepletedCampaign
)

var statusNames = [...]string{
	Unverified:         "unverified",
	Bypassed:           "bypassed",
	Verified:           "verified",
	Rewarded:           "rewarded",
	DecodeError:        "decode_error",
	ChallengeMismatch:  "challenge_mismatch",
	MalformedSignature: "malformed_signature",
	UnknownSigner:      "unknown_signer",
	StaleOrFutureProof: "stale_or_future_proof",
	UnknownCampaign:    "unknown_campaign",
	DepletedCampaign:   "depleted_campaign",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// OK is true for statuses of accepted proofs.
func (s Status) OK() bool {
	return s == Verified || s == Rewarded
}

// Outcome of a verification. Fields other than Status and Err are filled as far as
// verification progressed.
type Outcome struct {
	Status Status
	// Err is the cause of a failed verification.
	Err error

	Account types.Address
	// Nonce of the consumed challenge.
	Nonce    uint64
	Signer   types.Address
	Campaign types.CampaignID
	Reward   *uint256.Int
}

// MarshalLogObject implements logging interface.
func (o *Outcome) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("status", o.Status.String())
	if o.Err != nil {
		encoder.AddString("cause", o.Err.Error())
	}
	encoder.AddString("account", o.Account.Hex())
	encoder.AddUint64("nonce", o.Nonce)
	if o.Signer != types.EmptyAddress {
		encoder.AddString("signer", o.Signer.Hex())
	}
	if !o.Campaign.Empty() {
		encoder.AddString("campaign", o.Campaign.ShortString())
	}
	if o.Reward != nil {
		encoder.AddString("reward", o.Reward.Dec())
	}
	return nil
}
