package signing

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/proof"
)

var backendArguments = func() abi.Arguments {
	args := abi.Arguments{}
	for _, kind := range []string{"uint256", "uint256", "address", "address", "bytes32"} {
		typ, err := abi.NewType(kind, "", nil)
		if err != nil {
			panic(err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}()

// BackendPayload returns the bytes a signer attests to. The consumer is part of the
// payload so that a proof issued for one consumer can't be used with another.
//
// V0 payload is abi.encode(uint256 nonce, uint256 timestamp, address consumer,
// address account, bytes32 campaign). V1 payload is the version tag followed by
// the same fields packed without padding.
func BackendPayload(version types.VersionTag, consumer types.Address, p *types.Proof) ([]byte, error) {
	switch version {
	case proof.V0:
		data, err := backendArguments.Pack(
			new(big.Int).SetUint64(p.Nonce),
			new(big.Int).SetUint64(p.Timestamp),
			consumer,
			p.Account,
			types.Hash32(p.Campaign),
		)
		if err != nil {
			return nil, fmt.Errorf("pack backend payload: %w", err)
		}
		return data, nil
	case proof.V1:
		buf := make([]byte, 0, types.Hash32Length+16+2*types.AddressLength+types.Hash32Length)
		buf = append(buf, version[:]...)
		buf = binary.BigEndian.AppendUint64(buf, p.Nonce)
		buf = binary.BigEndian.AppendUint64(buf, p.Timestamp)
		buf = append(buf, consumer[:]...)
		buf = append(buf, p.Account[:]...)
		buf = append(buf, p.Campaign[:]...)
		return buf, nil
	}
	_, err := proof.Lookup(version)
	return nil, err
}

// Digest is keccak256 of the backend payload.
func Digest(version types.VersionTag, consumer types.Address, p *types.Proof) (types.Hash32, error) {
	payload, err := BackendPayload(version, consumer, p)
	if err != nil {
		return types.Hash32{}, err
	}
	return types.Keccak256(payload), nil
}
