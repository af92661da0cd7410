package signing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/afero"

	"github.com/solve3/go-solve3/common/types"
)

type signerOption struct {
	fs   afero.Fs
	priv *ecdsa.PrivateKey
	rand io.Reader
	from string
	to   string
}

// SignerOptionFunc modifies EcdsaSigner.
type SignerOptionFunc func(*signerOption) error

// WithFs sets the filesystem used by FromFile and ToFile. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) SignerOptionFunc {
	return func(opt *signerOption) error {
		opt.fs = fs
		return nil
	}
}

// WithPrivateKey sets the private key used by EcdsaSigner.
func WithPrivateKey(priv *ecdsa.PrivateKey) SignerOptionFunc {
	return func(opt *signerOption) error {
		if opt.priv != nil || opt.from != "" {
			return errors.New("invalid option WithPrivateKey: private key already set")
		}
		opt.priv = priv
		return nil
	}
}

// WithKeyFromRand generates the private key from the provided randomness source.
func WithKeyFromRand(rand io.Reader) SignerOptionFunc {
	return func(opt *signerOption) error {
		opt.rand = rand
		return nil
	}
}

// FromFile loads the hex encoded private key from a file.
func FromFile(path string) SignerOptionFunc {
	return func(opt *signerOption) error {
		if opt.priv != nil {
			return errors.New("invalid option FromFile: private key already set")
		}
		if opt.to != "" {
			return errors.New("invalid option FromFile: file already set")
		}
		opt.from = path
		return nil
	}
}

// ToFile writes the generated private key to a file. The file must not exist.
func ToFile(path string) SignerOptionFunc {
	return func(opt *signerOption) error {
		if opt.from != "" {
			return errors.New("invalid option ToFile: file already set")
		}
		opt.to = path
		return nil
	}
}

// EcdsaSigner issues attestations with a secp256k1 key, the way an off-chain
// backend signs proofs.
type EcdsaSigner struct {
	priv *ecdsa.PrivateKey
	file string
}

// NewEcdsaSigner returns a signer with the configured or a freshly generated key.
func NewEcdsaSigner(opts ...SignerOptionFunc) (*EcdsaSigner, error) {
	cfg := &signerOption{fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.from != "" {
		data, err := afero.ReadFile(cfg.fs, cfg.from)
		if err != nil {
			return nil, fmt.Errorf("failed to open key file at %s: %w", cfg.from, err)
		}
		priv, err := crypto.HexToECDSA(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("decoding private key in %s: %w", filepath.Base(cfg.from), err)
		}
		return &EcdsaSigner{priv: priv, file: cfg.from}, nil
	}
	if cfg.priv == nil {
		if cfg.rand == nil {
			cfg.rand = rand.Reader
		}
		priv, err := ecdsa.GenerateKey(crypto.S256(), cfg.rand)
		if err != nil {
			return nil, fmt.Errorf("could not generate key: %w", err)
		}
		cfg.priv = priv
	}
	if cfg.to != "" {
		exists, err := afero.Exists(cfg.fs, cfg.to)
		switch {
		case err != nil:
			return nil, fmt.Errorf("stat key file %s: %w", filepath.Base(cfg.to), err)
		case exists:
			return nil, fmt.Errorf("save key file %s: %w", filepath.Base(cfg.to), fs.ErrExist)
		}
		encoded := fmt.Sprintf("%x", crypto.FromECDSA(cfg.priv))
		if err := afero.WriteFile(cfg.fs, cfg.to, []byte(encoded), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write key file: %w", err)
		}
	}
	return &EcdsaSigner{priv: cfg.priv, file: cfg.to}, nil
}

// Address of the signer.
func (s *EcdsaSigner) Address() types.Address {
	return crypto.PubkeyToAddress(s.priv.PublicKey)
}

// Name returns the base name of the key file, if any.
func (s *EcdsaSigner) Name() string {
	if s.file == "" {
		return ""
	}
	return filepath.Base(s.file)
}

// SignDigest signs digest as a personal message. V is returned in the {27, 28} form.
func (s *EcdsaSigner) SignDigest(digest types.Hash32) (types.Signature, error) {
	raw, err := crypto.Sign(MessageHash(digest), s.priv)
	if err != nil {
		return types.Signature{}, fmt.Errorf("sign digest: %w", err)
	}
	sig, err := SignatureFromBytes(raw)
	if err != nil {
		return types.Signature{}, err
	}
	sig.V += legacyRecoveryOffset
	return sig, nil
}

// Attest builds and signs a proof that lets account consume challenge ch at consumer.
// Pass types.EmptyCampaignID for proofs without reward.
func (s *EcdsaSigner) Attest(
	version types.VersionTag,
	consumer, account types.Address,
	ch types.Challenge,
	campaign types.CampaignID,
) (*types.Proof, error) {
	p := &types.Proof{
		Version:   version,
		Account:   account,
		Timestamp: ch.Timestamp,
		Nonce:     ch.Nonce,
		Campaign:  campaign,
	}
	digest, err := Digest(version, consumer, p)
	if err != nil {
		return nil, err
	}
	p.Signature, err = s.SignDigest(digest)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *EcdsaSigner) String() string {
	return s.Address().Hex()
}
