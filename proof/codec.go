// Package proof encodes and decodes the proof bytes submitted for verification.
//
// Every protocol version has its own fixed-size layout, selected by the version tag
// that travels next to the proof bytes. Unknown versions are rejected, there is no
// default layout.
package proof

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/solve3/go-solve3/common/types"
)

// ErrDecode is returned for proofs with an unknown version, a wrong length or
// non-canonical padding.
var ErrDecode = errors.New("proof: decode")

var (
	// V0 is the ABI layout of seven 32-byte words.
	V0 = types.NewVersionTag(0)
	// V1 is the packed layout without padding.
	V1 = types.NewVersionTag(1)
)

// Format is the wire layout of a single protocol version.
type Format interface {
	// Size of encoded proof in bytes.
	Size() int
	Encode(*types.Proof) ([]byte, error)
	// Decode expects exactly Size() bytes.
	Decode([]byte) (*types.Proof, error)
}

var formats = map[types.VersionTag]Format{
	V0: abiFormat{},
	V1: packedFormat{},
}

// Lookup returns the format registered for version.
func Lookup(version types.VersionTag) (Format, error) {
	f, ok := formats[version]
	if !ok {
		return nil, fmt.Errorf("%w: unknown version %s", ErrDecode, version.ShortString())
	}
	return f, nil
}

// Versions returns every supported version tag.
func Versions() []types.VersionTag {
	rst := make([]types.VersionTag, 0, len(formats))
	for v := range formats {
		rst = append(rst, v)
	}
	sort.Slice(rst, func(i, j int) bool {
		return types.Hash32(rst[i]).Cmp(types.Hash32(rst[j])) < 0
	})
	return rst
}

// Decode proof bytes according to version. The returned proof carries version.
func Decode(version types.VersionTag, data []byte) (*types.Proof, error) {
	f, err := Lookup(version)
	if err != nil {
		return nil, err
	}
	if len(data) != f.Size() {
		return nil, fmt.Errorf("%w: length %d, expected %d", ErrDecode, len(data), f.Size())
	}
	p, err := f.Decode(data)
	if err != nil {
		return nil, err
	}
	p.Version = version
	return p, nil
}

// Encode proof according to its version.
func Encode(p *types.Proof) ([]byte, error) {
	f, err := Lookup(p.Version)
	if err != nil {
		return nil, err
	}
	return f.Encode(p)
}

// DecodeHex decodes hex encoded proof. Prefix 0x is optional and hex digits are
// case insensitive.
func DecodeHex(version types.VersionTag, s string) (*types.Proof, error) {
	data, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return Decode(version, data)
}

// EncodeHex encodes proof as lower case hex with 0x prefix.
func EncodeHex(p *types.Proof) (string, error) {
	data, err := Encode(p)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(data), nil
}

// ParseHex decodes hex with optional 0x or 0X prefix.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return data, nil
}
