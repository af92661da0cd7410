package proof

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/solve3/go-solve3/common/types"
)

const word = 32

var abiArguments = mustArguments(
	"bytes32", // s
	"bytes32", // r
	"uint8",   // v
	"uint256", // nonce
	"uint256", // timestamp
	"address", // account
	"bytes32", // campaign
)

func mustArguments(kinds ...string) abi.Arguments {
	args := make(abi.Arguments, 0, len(kinds))
	for _, kind := range kinds {
		typ, err := abi.NewType(kind, "", nil)
		if err != nil {
			panic(err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}

// abiFormat is abi.encode(bytes32 s, bytes32 r, uint8 v, uint256 nonce,
// uint256 timestamp, address account, bytes32 campaign).
type abiFormat struct{}

func (abiFormat) Size() int {
	return len(abiArguments) * word
}

func (abiFormat) Encode(p *types.Proof) ([]byte, error) {
	data, err := abiArguments.Pack(
		p.Signature.S,
		p.Signature.R,
		p.Signature.V,
		new(big.Int).SetUint64(p.Nonce),
		new(big.Int).SetUint64(p.Timestamp),
		p.Account,
		types.Hash32(p.Campaign),
	)
	if err != nil {
		return nil, fmt.Errorf("pack proof: %w", err)
	}
	return data, nil
}

// Decode is stricter than abi unpacking: padding must be zero and integers must
// fit 64 bits, so that every proof has exactly one encoding.
func (abiFormat) Decode(data []byte) (*types.Proof, error) {
	words := make([][]byte, len(abiArguments))
	for i := range words {
		words[i] = data[i*word : (i+1)*word]
	}
	var p types.Proof
	copy(p.Signature.S[:], words[0])
	copy(p.Signature.R[:], words[1])

	v, err := uintWord(words[2], 1, "v")
	if err != nil {
		return nil, err
	}
	p.Signature.V = uint8(v)
	if p.Nonce, err = uintWord(words[3], 8, "nonce"); err != nil {
		return nil, err
	}
	if p.Timestamp, err = uintWord(words[4], 8, "timestamp"); err != nil {
		return nil, err
	}
	if !zero(words[5][:word-types.AddressLength]) {
		return nil, fmt.Errorf("%w: account padding", ErrDecode)
	}
	p.Account = types.BytesToAddress(words[5][word-types.AddressLength:])
	copy(p.Campaign[:], words[6])
	return &p, nil
}

func uintWord(w []byte, size int, field string) (uint64, error) {
	if !zero(w[:word-size]) {
		return 0, fmt.Errorf("%w: %s exceeds %d bytes", ErrDecode, field, size)
	}
	var buf [8]byte
	copy(buf[8-size:], w[word-size:])
	return binary.BigEndian.Uint64(buf[:]), nil
}

func zero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
