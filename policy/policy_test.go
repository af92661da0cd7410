package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

func TestDefaultWindow(t *testing.T) {
	db := sql.InMemory()
	p := New(WithLogger(zaptest.NewLogger(t)))
	consumer := types.Address{1}

	w, err := p.Window(db, consumer)
	require.NoError(t, err)
	require.Equal(t, DefaultWindow(), w)

	require.NoError(t, p.Check(db, consumer, 1000, 1300))
	require.ErrorIs(t, p.Check(db, consumer, 1000, 1301), ErrStaleOrFutureProof)

	custom := New(WithDefaultWindow(types.Window{ValidPeriod: time.Minute}))
	require.ErrorIs(t, custom.Check(db, consumer, 1000, 1061), ErrStaleOrFutureProof)
}

func TestSetWindow(t *testing.T) {
	db := sql.InMemory()
	p := New(WithLogger(zaptest.NewLogger(t)))
	consumer, other := types.Address{1}, types.Address{2}
	w := types.Window{ValidFrom: 500, ValidPeriod: 300 * time.Second}

	require.ErrorIs(t, p.SetWindow(db, other, consumer, w), types.ErrUnauthorized)
	require.ErrorIs(t, p.SetWindow(db, consumer, consumer,
		types.Window{ValidPeriod: 1500 * time.Millisecond}), ErrInvalidWindow)
	require.ErrorIs(t, p.SetWindow(db, consumer, consumer,
		types.Window{ValidPeriod: -time.Second}), ErrInvalidWindow)
	require.NoError(t, p.SetWindow(db, consumer, consumer, w))

	got, err := p.Window(db, consumer)
	require.NoError(t, err)
	require.Equal(t, w, got)

	// other consumers are not affected
	got, err = p.Window(db, other)
	require.NoError(t, err)
	require.Equal(t, DefaultWindow(), got)
}

func TestFreshness(t *testing.T) {
	db := sql.InMemory()
	p := New()
	consumer := types.Address{1}
	const T = 1_000_000
	require.NoError(t, p.SetWindow(db, consumer, consumer,
		types.Window{ValidFrom: T - 100, ValidPeriod: 300 * time.Second}))

	for _, now := range []uint64{T - 100, T, T + 1, T + 300} {
		fresh, err := p.IsFresh(db, consumer, T, now)
		require.NoError(t, err)
		require.True(t, fresh, "now=%d", now)
	}
	require.ErrorIs(t, p.Check(db, consumer, T, T+301), ErrStaleOrFutureProof)
	require.ErrorIs(t, p.Check(db, consumer, T-101, T), ErrStaleOrFutureProof)
}
