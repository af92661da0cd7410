package types

import (
	"go.uber.org/zap/zapcore"
)

// Signature is a secp256k1 signature split into its components.
// V is the recovery id, either in {0, 1} or in the legacy {27, 28} form.
type Signature struct {
	R Hash32
	S Hash32
	V uint8
}

// Proof is the decoded form of the proof bytes submitted for verification.
type Proof struct {
	Version   VersionTag
	Signature Signature
	Account   Address
	Timestamp uint64
	Nonce     uint64
	Campaign  CampaignID
}

// Challenge returns the (timestamp, nonce) pair the proof claims to consume.
func (p *Proof) Challenge() Challenge {
	return Challenge{Timestamp: p.Timestamp, Nonce: p.Nonce}
}

// MarshalLogObject implements logging interface.
func (p *Proof) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("version", p.Version.ShortString())
	encoder.AddString("account", p.Account.Hex())
	encoder.AddUint64("timestamp", p.Timestamp)
	encoder.AddUint64("nonce", p.Nonce)
	if !p.Campaign.Empty() {
		encoder.AddString("campaign", p.Campaign.ShortString())
	}
	return nil
}
