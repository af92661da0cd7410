package signing

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/proof"
)

var (
	consumer = types.Address{0xc0}
	account  = types.Address{0xac}
)

func newSigner(tb testing.TB) *EcdsaSigner {
	tb.Helper()
	s, err := NewEcdsaSigner()
	require.NoError(tb, err)
	return s
}

func TestBackendPayloadV0(t *testing.T) {
	p := &types.Proof{Account: account, Timestamp: 1000, Nonce: 3, Campaign: types.CampaignID{0xee}}
	payload, err := BackendPayload(proof.V0, consumer, p)
	require.NoError(t, err)
	require.Len(t, payload, 5*32)
	require.Equal(t, byte(3), payload[31])
	require.Equal(t, big.NewInt(1000), new(big.Int).SetBytes(payload[32:64]))
	require.Equal(t, consumer[:], payload[64+12:96])
	require.Equal(t, account[:], payload[96+12:128])
	require.Equal(t, p.Campaign[:], payload[128:160])

	digest, err := Digest(proof.V0, consumer, p)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(payload), digest)

	v1, err := Digest(proof.V1, consumer, p)
	require.NoError(t, err)
	require.NotEqual(t, digest, v1)

	_, err = Digest(types.VersionTagFromLabel("SOLVE3.V7"), consumer, p)
	require.ErrorIs(t, err, proof.ErrDecode)
}

// The message signed in the backend fixture: hardhat account #1 attests nonce 0 at
// timestamp 0x63121894 for account 0x1688..37 at consumer 0xf43c..fB, campaign
// keccak256("").
func TestBackendFixture(t *testing.T) {
	const (
		hardhatKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
		payload    = "0000000000000000000000000000000000000000000000000000000000000000" +
			"0000000000000000000000000000000000000000000000000000000063121894" +
			"000000000000000000000000f43c980768cd390015e269ba06cb145fd440defb" +
			"0000000000000000000000001688c68f136f59643c8a8a66023d814e0bee6937" +
			"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
		digest  = "0xf731e53315691f8ec7ec250b5ae59745a6fc04923a75f65e7589950c9395a97c"
		message = "5d3cf9b742af8ea4b38883166c09879ce5e23866e15697fe23e63e7b3e45288a"
		r       = "0xb19bbbf852ceea3fcd2404858e95bbf89df43e2915ae40d68c44025219ad17c3"
		s       = "0x1f8c5158af9cae035a818b0f0f173f214b0e90276cc1afa4fabf6ed92d46eed9"
	)
	require.Equal(t, "0x5a87536846a67099abd67529224d756a40fd7089b007033c26cb67a2d7feb4e6", proof.V0.String())

	consumer := common.HexToAddress("0xf43c980768CD390015e269ba06cB145fD440DefB")
	p := &types.Proof{
		Version:   proof.V0,
		Account:   common.HexToAddress("0x1688C68f136F59643C8a8a66023D814e0bee6937"),
		Timestamp: 0x63121894,
		Nonce:     0,
		Campaign:  types.CampaignID(types.Keccak256(nil)),
	}
	encoded, err := BackendPayload(proof.V0, consumer, p)
	require.NoError(t, err)
	require.Equal(t, payload, hex.EncodeToString(encoded))

	d, err := Digest(proof.V0, consumer, p)
	require.NoError(t, err)
	require.Equal(t, digest, d.Hex())
	require.Equal(t, message, hex.EncodeToString(MessageHash(d)))

	sig := types.Signature{R: common.HexToHash(r), S: common.HexToHash(s), V: 27}
	signer, err := Recover(d, sig)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), signer)

	key, err := crypto.HexToECDSA(hardhatKey)
	require.NoError(t, err)
	backend, err := NewEcdsaSigner(WithPrivateKey(key))
	require.NoError(t, err)
	require.Equal(t, signer, backend.Address())
	signed, err := backend.SignDigest(d)
	require.NoError(t, err)
	require.Equal(t, sig, signed, "signatures are deterministic")

	p.Signature = sig
	chain, err := proof.Encode(p)
	require.NoError(t, err)
	require.Equal(t, sig.S[:], chain[:32])
	require.Equal(t, sig.R[:], chain[32:64])
	require.Equal(t, byte(27), chain[95])
	require.Equal(t, encoded[:64], chain[96:160], "nonce and timestamp words")
	require.Equal(t, encoded[96:160], chain[160:224], "account and campaign words")
}

func TestRecover(t *testing.T) {
	signer := newSigner(t)
	for _, version := range proof.Versions() {
		p, err := signer.Attest(version, consumer, account, types.Challenge{Timestamp: 10, Nonce: 1}, types.EmptyCampaignID)
		require.NoError(t, err)
		require.Contains(t, []uint8{27, 28}, p.Signature.V)

		digest, err := Digest(version, consumer, p)
		require.NoError(t, err)
		got, err := Recover(digest, p.Signature)
		require.NoError(t, err)
		require.Equal(t, signer.Address(), got)

		raw := p.Signature
		raw.V -= 27
		_, err = Recover(digest, raw)
		require.ErrorIs(t, err, ErrMalformedSignature, "raw recovery id is not accepted")

		other, err := Digest(version, types.Address{0xc1}, p)
		require.NoError(t, err)
		got, err = Recover(other, p.Signature)
		require.NoError(t, err)
		require.NotEqual(t, signer.Address(), got, "proof is bound to consumer")
	}
}

func TestRecoverMalformed(t *testing.T) {
	signer := newSigner(t)
	digest := types.Hash32{1, 2, 3}
	sig, err := signer.SignDigest(digest)
	require.NoError(t, err)

	highS := sig
	s := new(big.Int).SetBytes(sig.S[:])
	highS.S = types.BytesToHash(new(big.Int).Sub(crypto.S256().Params().N, s).Bytes())
	highS.V = 55 - sig.V // flip parity in the 27/28 form

	for _, tc := range []struct {
		desc string
		sig  types.Signature
	}{
		{"recovery id", types.Signature{R: sig.R, S: sig.S, V: 29}},
		{"recovery id 2", types.Signature{R: sig.R, S: sig.S, V: 2}},
		{"raw recovery id 0", types.Signature{R: sig.R, S: sig.S, V: 0}},
		{"raw recovery id 1", types.Signature{R: sig.R, S: sig.S, V: 1}},
		{"zero r", types.Signature{S: sig.S, V: sig.V}},
		{"zero s", types.Signature{R: sig.R, V: sig.V}},
		{"high s", highS},
		{"r above order", types.Signature{R: types.BytesToHash(crypto.S256().Params().N.Bytes()), S: sig.S, V: sig.V}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Recover(digest, tc.sig)
			require.ErrorIs(t, err, ErrMalformedSignature)
		})
	}

	_, err = SignatureFromBytes(make([]byte, 64))
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	members := NewMockmembership(ctrl)
	verifier := NewVerifier(members, WithVerifierLogger(zaptest.NewLogger(t)))
	signer := newSigner(t)

	p, err := signer.Attest(proof.V0, consumer, account, types.Challenge{Timestamp: 10, Nonce: 1}, types.EmptyCampaignID)
	require.NoError(t, err)

	t.Run("authorized", func(t *testing.T) {
		members.EXPECT().IsSigner(nil, signer.Address()).Return(true, nil)
		got, err := verifier.Verify(nil, consumer, p)
		require.NoError(t, err)
		require.Equal(t, signer.Address(), got)
	})
	t.Run("not authorized", func(t *testing.T) {
		members.EXPECT().IsSigner(nil, signer.Address()).Return(false, nil)
		_, err := verifier.Verify(nil, consumer, p)
		require.ErrorIs(t, err, ErrUnknownSigner)
	})
	t.Run("database failure", func(t *testing.T) {
		failure := errors.New("test")
		members.EXPECT().IsSigner(nil, signer.Address()).Return(false, failure)
		_, err := verifier.Verify(nil, consumer, p)
		require.ErrorIs(t, err, failure)
	})

	tampered := []func(*types.Proof){
		func(p *types.Proof) { p.Account = types.Address{0xad} },
		func(p *types.Proof) { p.Timestamp++ },
		func(p *types.Proof) { p.Nonce++ },
		func(p *types.Proof) { p.Campaign = types.CampaignID{1} },
	}
	for i, tamper := range tampered {
		cp := *p
		tamper(&cp)
		members.EXPECT().IsSigner(nil, gomock.Not(signer.Address())).Return(false, nil)
		_, err := verifier.Verify(nil, consumer, &cp)
		require.ErrorIs(t, err, ErrUnknownSigner, "tamper %d", i)
	}
}

func TestKeyFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	created, err := NewEcdsaSigner(WithFs(fsys), ToFile("/keys/signer.key"))
	require.NoError(t, err)
	require.Equal(t, "signer.key", created.Name())

	loaded, err := NewEcdsaSigner(WithFs(fsys), FromFile("/keys/signer.key"))
	require.NoError(t, err)
	require.Equal(t, created.Address(), loaded.Address())

	_, err = NewEcdsaSigner(WithFs(fsys), ToFile("/keys/signer.key"))
	require.ErrorIs(t, err, fs.ErrExist)

	_, err = NewEcdsaSigner(WithFs(fsys), FromFile("/keys/missing.key"))
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/keys/garbage.key", []byte("zz"), 0o600))
	_, err = NewEcdsaSigner(WithFs(fsys), FromFile("/keys/garbage.key"))
	require.Error(t, err)

	_, err = NewEcdsaSigner(FromFile("a"), ToFile("b"))
	require.Error(t, err)
}

func TestWithPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewEcdsaSigner(WithPrivateKey(key))
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())
	require.Empty(t, s.Name())
}
