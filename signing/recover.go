package signing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/solve3/go-solve3/common/types"
)

// ErrMalformedSignature is returned when no public key can be recovered from the
// signature.
var ErrMalformedSignature = errors.New("malformed signature")

// legacyRecoveryOffset is added to the recovery id by wallets that sign personal messages.
const legacyRecoveryOffset = 27

// MessageHash wraps digest with the personal message prefix
// "\x19Ethereum Signed Message:\n32".
func MessageHash(digest types.Hash32) []byte {
	return accounts.TextHash(digest[:])
}

// Recover returns the address that signed digest as a personal message.
// Recovery id must be 27 or 28, the form wallets produce for personal messages.
// Signatures with high s are rejected, so that every signature has one valid form.
func Recover(digest types.Hash32, sig types.Signature) (types.Address, error) {
	if sig.V != legacyRecoveryOffset && sig.V != legacyRecoveryOffset+1 {
		return types.Address{}, fmt.Errorf("%w: recovery id %d", ErrMalformedSignature, sig.V)
	}
	v := sig.V - legacyRecoveryOffset
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return types.Address{}, fmt.Errorf("%w: invalid r or s", ErrMalformedSignature)
	}
	raw := make([]byte, 0, crypto.SignatureLength)
	raw = append(raw, sig.R[:]...)
	raw = append(raw, sig.S[:]...)
	raw = append(raw, v)
	pub, err := crypto.SigToPub(MessageHash(digest), raw)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignatureFromBytes splits 65 bytes r | s | v.
func SignatureFromBytes(raw []byte) (types.Signature, error) {
	if len(raw) != crypto.SignatureLength {
		return types.Signature{}, fmt.Errorf("%w: length %d", ErrMalformedSignature, len(raw))
	}
	var sig types.Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]
	return sig, nil
}
