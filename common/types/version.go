package types

import "fmt"

// VersionPrefix is the ascii prefix of protocol version labels.
const VersionPrefix = "SOLVE3.V"

// VersionTag selects the wire format of a proof. It is the keccak256 hash of a
// human readable label such as "SOLVE3.V0".
type VersionTag Hash32

// NewVersionTag returns the tag for the numbered protocol version.
func NewVersionTag(n uint) VersionTag {
	return VersionTagFromLabel(fmt.Sprintf("%s%d", VersionPrefix, n))
}

// VersionTagFromLabel hashes an arbitrary label into a version tag.
func VersionTagFromLabel(label string) VersionTag {
	return VersionTag(Keccak256([]byte(label)))
}

// Bytes returns tag as a byte slice.
func (v VersionTag) Bytes() []byte {
	return v[:]
}

// String returns hex encoding of the tag.
func (v VersionTag) String() string {
	return Hash32(v).Hex()
}

// ShortString returns the first bytes of the tag for logging.
func (v VersionTag) ShortString() string {
	return Hash32(v).Hex()[:10]
}
