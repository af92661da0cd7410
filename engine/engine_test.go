package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/solve3/go-solve3/campaign"
	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/policy"
	"github.com/solve3/go-solve3/proof"
	"github.com/solve3/go-solve3/signers"
	"github.com/solve3/go-solve3/signing"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/token"
)

const genesis = 1_700_000_000

var reward = uint256.NewInt(20_000_000_000_000_000)

type tester struct {
	*Engine
	db       *sql.Database
	clock    *clockwork.FakeClock
	registry *signers.Registry
	bank     *token.Ledger
	signer   *signing.EcdsaSigner
	owner    types.Address
	consumer types.Address
}

func newTester(tb testing.TB, opts ...Opt) *tester {
	tb.Helper()
	t := &tester{
		db:       sql.InMemory(),
		clock:    clockwork.NewFakeClockAt(time.Unix(genesis, 0)),
		bank:     token.New(),
		owner:    types.Address{0x0e},
		consumer: types.Address{0xc0},
	}
	var err error
	t.registry, err = signers.New(t.db)
	require.NoError(tb, err)
	t.signer, err = signing.NewEcdsaSigner()
	require.NoError(tb, err)
	require.NoError(tb, t.registry.Initialize(context.Background(), t.owner, t.signer.Address()))

	cfg := DefaultConfig()
	ledger := campaign.New(t.bank, t.registry, cfg.Pool)
	opts = append([]Opt{
		WithLogger(zaptest.NewLogger(tb)),
		WithClock(t.clock),
		WithConfig(cfg),
	}, opts...)
	t.Engine = New(t.db, t.registry, ledger, opts...)
	return t
}

func (t *tester) attest(tb testing.TB, version types.VersionTag, account types.Address, id types.CampaignID) *types.Proof {
	tb.Helper()
	ch, err := t.Challenge(context.Background(), account)
	require.NoError(tb, err)
	p, err := t.signer.Attest(version, t.consumer, account, ch, id)
	require.NoError(tb, err)
	return p
}

func encode(tb testing.TB, p *types.Proof) []byte {
	tb.Helper()
	data, err := proof.Encode(p)
	require.NoError(tb, err)
	return data
}

func (t *tester) verify(tb testing.TB, p *types.Proof) Outcome {
	tb.Helper()
	outcome, err := t.Verify(context.Background(), p.Version, encode(tb, p), t.consumer)
	require.NoError(tb, err)
	return outcome
}

func (t *tester) live(tb testing.TB, account types.Address) types.Challenge {
	tb.Helper()
	ch, err := t.challenges.Peek(t.db, account)
	require.NoError(tb, err)
	return ch
}

func (t *tester) fund(tb testing.TB, solves uint32) types.CampaignID {
	tb.Helper()
	funder := types.Address{0xf0}
	require.NoError(tb, t.bank.Mint(t.db, funder, uint256.NewInt(1e18)))
	require.NoError(tb, t.bank.Approve(t.db, funder, t.campaigns.Pool(), new(uint256.Int).SetAllOne()))
	id, err := t.CreateCampaign(context.Background(), t.owner, funder, "ABCDEFG", solves, reward)
	require.NoError(tb, err)
	return id
}

func TestVerifyOnce(t *testing.T) {
	for _, version := range proof.Versions() {
		tester := newTester(t)
		account := types.Address{1}
		p := tester.attest(t, version, account, types.EmptyCampaignID)

		outcome := tester.verify(t, p)
		require.Equal(t, Verified, outcome.Status, outcome.Err)
		require.Equal(t, account, outcome.Account)
		require.Equal(t, tester.signer.Address(), outcome.Signer)
		require.Zero(t, outcome.Nonce)
		require.Nil(t, outcome.Reward)

		replay := tester.verify(t, p)
		require.Equal(t, ChallengeMismatch, replay.Status)
		require.Equal(t, types.Challenge{Timestamp: genesis, Nonce: 1}, tester.live(t, account))
	}
}

func TestNonceIncrementsByOne(t *testing.T) {
	tester := newTester(t)
	account := types.Address{1}
	for i := 0; i < 5; i++ {
		tester.clock.Advance(time.Second)
		p := tester.attest(t, proof.V0, account, types.EmptyCampaignID)
		require.Equal(t, uint64(i), p.Nonce)

		outcome := tester.verify(t, p)
		require.Equal(t, Verified, outcome.Status, outcome.Err)
		require.Equal(t, uint64(i), outcome.Nonce)

		live := tester.live(t, account)
		require.Equal(t, uint64(i+1), live.Nonce)
		require.Equal(t, uint64(tester.clock.Now().Unix()), live.Timestamp)
	}
}

func TestStaleChallenge(t *testing.T) {
	tester := newTester(t)
	account := types.Address{1}
	first := tester.attest(t, proof.V0, account, types.EmptyCampaignID)
	second := tester.attest(t, proof.V0, account, types.EmptyCampaignID)
	require.Equal(t, first.Challenge(), second.Challenge())

	require.Equal(t, Verified, tester.verify(t, second).Status)
	require.Equal(t, ChallengeMismatch, tester.verify(t, first).Status)

	live := tester.live(t, account)
	ahead, err := tester.signer.Attest(proof.V0, tester.consumer, account,
		types.Challenge{Timestamp: live.Timestamp, Nonce: live.Nonce + 1}, types.EmptyCampaignID)
	require.NoError(t, err)
	require.Equal(t, ChallengeMismatch, tester.verify(t, ahead).Status)

	future, err := tester.signer.Attest(proof.V0, tester.consumer, account,
		types.Challenge{Timestamp: live.Timestamp + 1_000_000, Nonce: live.Nonce}, types.EmptyCampaignID)
	require.NoError(t, err)
	require.Equal(t, ChallengeMismatch, tester.verify(t, future).Status)
	require.Equal(t, live, tester.live(t, account))
}

func TestFreshnessWindow(t *testing.T) {
	tester := newTester(t)
	require.NoError(t, tester.SetWindow(context.Background(), tester.consumer, tester.consumer,
		types.Window{ValidPeriod: 300 * time.Second}))

	inTime := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	expired := tester.attest(t, proof.V0, types.Address{2}, types.EmptyCampaignID)

	tester.clock.Advance(300 * time.Second)
	require.Equal(t, Verified, tester.verify(t, inTime).Status)

	tester.clock.Advance(time.Second)
	outcome := tester.verify(t, expired)
	require.Equal(t, StaleOrFutureProof, outcome.Status)
	require.ErrorIs(t, outcome.Err, policy.ErrStaleOrFutureProof)
	require.Equal(t, types.Challenge{Timestamp: genesis}, tester.live(t, types.Address{2}))
}

func TestValidFrom(t *testing.T) {
	tester := newTester(t)
	early := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	require.NoError(t, tester.SetWindow(context.Background(), tester.consumer, tester.consumer,
		types.Window{ValidFrom: genesis + 1, ValidPeriod: 300 * time.Second}))

	tester.clock.Advance(time.Second)
	require.Equal(t, StaleOrFutureProof, tester.verify(t, early).Status)

	err := tester.SetWindow(context.Background(), types.Address{9}, tester.consumer, types.Window{})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestUnconfiguredConsumerUsesDefaultWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultValidPeriod = 10 * time.Second
	tester := newTester(t, WithConfig(cfg))
	p := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	tester.clock.Advance(11 * time.Second)
	require.Equal(t, StaleOrFutureProof, tester.verify(t, p).Status)

	w, err := tester.Window(tester.consumer)
	require.NoError(t, err)
	require.Equal(t, cfg.DefaultWindow(), w)
}

func TestCampaignPayout(t *testing.T) {
	tester := newTester(t)
	id := tester.fund(t, 2)
	active, err := tester.ActiveCampaigns()
	require.NoError(t, err)
	require.Equal(t, []types.CampaignID{id}, active)

	for _, account := range []types.Address{{1}, {2}} {
		outcome := tester.verify(t, tester.attest(t, proof.V0, account, id))
		require.Equal(t, Rewarded, outcome.Status, outcome.Err)
		require.Equal(t, id, outcome.Campaign)
		require.True(t, reward.Eq(outcome.Reward))

		balance, err := tester.bank.BalanceOf(tester.db, account)
		require.NoError(t, err)
		require.True(t, reward.Eq(balance))
	}

	c, err := tester.Campaign(id)
	require.NoError(t, err)
	require.Zero(t, c.SolvesRemaining)
	active, err = tester.ActiveCampaigns()
	require.NoError(t, err)
	require.Empty(t, active)

	late := types.Address{3}
	outcome := tester.verify(t, tester.attest(t, proof.V0, late, id))
	require.Equal(t, DepletedCampaign, outcome.Status)
	require.Equal(t, types.Challenge{Timestamp: genesis}, tester.live(t, late), "challenge is not burned")

	balance, err := tester.bank.BalanceOf(tester.db, late)
	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestUnknownCampaign(t *testing.T) {
	tester := newTester(t)
	account := types.Address{1}
	outcome := tester.verify(t, tester.attest(t, proof.V0, account, types.CampaignID{0xde, 0xad}))
	require.Equal(t, UnknownCampaign, outcome.Status)
	require.ErrorIs(t, outcome.Err, campaign.ErrUnknownCampaign)
	require.Equal(t, types.Challenge{Timestamp: genesis}, tester.live(t, account))
}

func TestTampering(t *testing.T) {
	tester := newTester(t)
	account := types.Address{1}
	for _, tc := range []struct {
		desc   string
		tamper func(*types.Proof)
		expect []Status
	}{
		{"account", func(p *types.Proof) { p.Account = types.Address{2} }, []Status{UnknownSigner, ChallengeMismatch}},
		{"timestamp", func(p *types.Proof) { p.Timestamp++ }, []Status{ChallengeMismatch}},
		{"nonce", func(p *types.Proof) { p.Nonce++ }, []Status{ChallengeMismatch}},
		{"campaign", func(p *types.Proof) { p.Campaign = types.CampaignID{1} }, []Status{UnknownSigner}},
		{"signature", func(p *types.Proof) { p.Signature.R[31] ^= 1 }, []Status{UnknownSigner, MalformedSignature}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			p := tester.attest(t, proof.V0, account, types.EmptyCampaignID)
			tc.tamper(p)
			outcome := tester.verify(t, p)
			require.Contains(t, tc.expect, outcome.Status)
		})
	}
	require.Zero(t, tester.live(t, account).Nonce)
}

func TestForeignConsumer(t *testing.T) {
	tester := newTester(t)
	p := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	outcome, err := tester.Verify(context.Background(), p.Version, encode(t, p), types.Address{0xc1})
	require.NoError(t, err)
	require.Equal(t, UnknownSigner, outcome.Status)
}

func TestRemovedSigner(t *testing.T) {
	tester := newTester(t)
	account := types.Address{1}
	p := tester.attest(t, proof.V0, account, types.EmptyCampaignID)

	ok, err := tester.IsSigner(tester.signer.Address())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, tester.registry.RemoveSigner(context.Background(), tester.owner, tester.signer.Address()))
	ok, err = tester.IsSigner(tester.signer.Address())
	require.NoError(t, err)
	require.False(t, ok)

	outcome := tester.verify(t, p)
	require.Equal(t, UnknownSigner, outcome.Status)
	require.Equal(t, tester.signer.Address(), outcome.Signer)

	require.NoError(t, tester.registry.AddSigner(context.Background(), tester.owner, tester.signer.Address()))
	require.Equal(t, Verified, tester.verify(t, p).Status)
}

func TestMalformedInput(t *testing.T) {
	tester := newTester(t)
	p := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	data := encode(t, p)

	outcome, err := tester.Verify(context.Background(), p.Version, data[:100], tester.consumer)
	require.NoError(t, err)
	require.Equal(t, DecodeError, outcome.Status)

	outcome, err = tester.Verify(context.Background(), types.VersionTagFromLabel("SOLVE3.V2"), data, tester.consumer)
	require.NoError(t, err)
	require.Equal(t, DecodeError, outcome.Status)

	outcome, err = tester.Verify(context.Background(), proof.V1, data, tester.consumer)
	require.NoError(t, err)
	require.Equal(t, DecodeError, outcome.Status)

	p.Signature.V = 30
	require.Equal(t, MalformedSignature, tester.verify(t, p).Status)
}

func TestVerifyDatabaseFailure(t *testing.T) {
	tester := newTester(t)
	p := tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)
	require.NoError(t, tester.db.Close())

	outcome, err := tester.Verify(context.Background(), p.Version, encode(t, p), tester.consumer)
	require.ErrorIs(t, err, sql.ErrNoConnection)
	require.Equal(t, Unverified, outcome.Status)
	require.False(t, outcome.Status.OK())
}

func TestConcurrentReplay(t *testing.T) {
	tester := newTester(t)
	data := encode(t, tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID))

	var (
		accepted atomic.Int32
		eg       errgroup.Group
	)
	for _i := 0; _i < 16; _i++ {
		eg.Go(func() error {
			outcome, err := tester.Verify(context.Background(), proof.V0, data, tester.consumer)
			if err != nil {
				return err
			}
			if outcome.Status.OK() {
				accepted.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, int32(1), accepted.Load())
}

func TestConcurrentPayouts(t *testing.T) {
	tester := newTester(t)
	const solves = 3
	id := tester.fund(t, solves)

	proofs := make([][]byte, 8)
	for i := range proofs {
		proofs[i] = encode(t, tester.attest(t, proof.V0, types.Address{byte(i + 1)}, id))
	}
	var (
		rewarded atomic.Int32
		eg       errgroup.Group
	)
	for _, data := range proofs {
		data := data
		eg.Go(func() error {
			outcome, err := tester.Verify(context.Background(), proof.V0, data, tester.consumer)
			if err != nil {
				return err
			}
			if outcome.Status == Rewarded {
				rewarded.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, int32(solves), rewarded.Load())

	pool, err := tester.bank.BalanceOf(tester.db, tester.campaigns.Pool())
	require.NoError(t, err)
	require.True(t, pool.IsZero())
}

func TestLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tester := newTester(t, WithLogger(zap.New(core)))
	require.Equal(t, Verified, tester.verify(t, tester.attest(t, proof.V0, types.Address{1}, types.EmptyCampaignID)).Status)

	entries := logs.FilterMessage("proof verified").All()
	require.Len(t, entries, 1)
	require.Equal(t, tester.consumer.String(), entries[0].ContextMap()["consumer"])
}
