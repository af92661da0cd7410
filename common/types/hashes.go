package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// Hash32Length is the length of keccak256 digests and 32-byte ids.
	Hash32Length = common.HashLength
	// AddressLength is the length of an account identity.
	AddressLength = common.AddressLength
)

type (
	// Hash32 is a 32-byte digest.
	Hash32 = common.Hash
	// Address is an opaque 20-byte account identity.
	Address = common.Address
)

// EmptyAddress is the zero address.
var EmptyAddress Address

// Keccak256 hashes concatenation of the chunks.
func Keccak256(chunks ...[]byte) Hash32 {
	return crypto.Keccak256Hash(chunks...)
}

// BytesToAddress converts b into an address, cropping from the left if b is longer.
func BytesToAddress(b []byte) Address {
	return common.BytesToAddress(b)
}

// BytesToHash converts b into a hash, cropping from the left if b is longer.
func BytesToHash(b []byte) Hash32 {
	return common.BytesToHash(b)
}
