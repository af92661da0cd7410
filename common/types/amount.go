package types

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrAmountOverflow is returned when token arithmetic exceeds 256 bits.
var ErrAmountOverflow = errors.New("amount overflow")

// MulAmount returns amount*n, failing instead of wrapping around.
func MulAmount(amount *uint256.Int, n uint64) (*uint256.Int, error) {
	rst, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(n))
	if overflow {
		return nil, ErrAmountOverflow
	}
	return rst, nil
}

// AddAmount returns a+b, failing instead of wrapping around.
func AddAmount(a, b *uint256.Int) (*uint256.Int, error) {
	rst, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return rst, nil
}

// AmountFromBytes decodes a 32-byte big-endian amount.
func AmountFromBytes(b []byte) *uint256.Int {
	return new(uint256.Int).SetBytes(b)
}

// AmountBytes encodes amount as 32-byte big-endian.
func AmountBytes(amount *uint256.Int) []byte {
	b := amount.Bytes32()
	return b[:]
}
