package proof

import (
	"encoding/binary"

	"github.com/solve3/go-solve3/common/types"
)

const packedSize = 2*types.Hash32Length + 1 + 8 + 8 + types.AddressLength + types.Hash32Length

// packedFormat is s | r | v | nonce | timestamp | account | campaign, with
// integers in big endian and no padding.
type packedFormat struct{}

func (packedFormat) Size() int {
	return packedSize
}

func (packedFormat) Encode(p *types.Proof) ([]byte, error) {
	buf := make([]byte, 0, packedSize)
	buf = append(buf, p.Signature.S[:]...)
	buf = append(buf, p.Signature.R[:]...)
	buf = append(buf, p.Signature.V)
	buf = binary.BigEndian.AppendUint64(buf, p.Nonce)
	buf = binary.BigEndian.AppendUint64(buf, p.Timestamp)
	buf = append(buf, p.Account[:]...)
	buf = append(buf, p.Campaign[:]...)
	return buf, nil
}

func (packedFormat) Decode(data []byte) (*types.Proof, error) {
	var p types.Proof
	off := 0
	next := func(n int) []byte {
		b := data[off : off+n]
		off += n
		return b
	}
	copy(p.Signature.S[:], next(types.Hash32Length))
	copy(p.Signature.R[:], next(types.Hash32Length))
	p.Signature.V = next(1)[0]
	p.Nonce = binary.BigEndian.Uint64(next(8))
	p.Timestamp = binary.BigEndian.Uint64(next(8))
	copy(p.Account[:], next(types.AddressLength))
	copy(p.Campaign[:], next(types.Hash32Length))
	return &p, nil
}
