package challenges

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

func TestGetAdd(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{1}

	_, err := Get(db, account)
	require.ErrorIs(t, err, sql.ErrNotFound)

	ch := types.Challenge{Timestamp: 1_662_130_324, Nonce: 0}
	require.NoError(t, Add(db, account, ch))
	require.ErrorIs(t, Add(db, account, ch), sql.ErrObjectExists)

	got, err := Get(db, account)
	require.NoError(t, err)
	require.Equal(t, ch, got)
}

func TestReplace(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{1}
	ch := types.Challenge{Timestamp: 100, Nonce: 5}
	require.NoError(t, Add(db, account, ch))

	next := types.Challenge{Timestamp: 110, Nonce: 6}
	for _, prev := range []types.Challenge{
		{Timestamp: 100, Nonce: 4},
		{Timestamp: 101, Nonce: 5},
		{Timestamp: 99, Nonce: 6},
	} {
		ok, err := Replace(db, account, prev, next)
		require.NoError(t, err)
		require.False(t, ok, "%+v", prev)
	}
	ok, err := Replace(db, types.Address{2}, ch, next)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Replace(db, account, ch, next)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := Get(db, account)
	require.NoError(t, err)
	require.Equal(t, next, got)

	ok, err = Replace(db, account, ch, next)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFullRange(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{3}
	ch := types.Challenge{Timestamp: math.MaxUint64, Nonce: math.MaxUint64 - 1}
	require.NoError(t, Add(db, account, ch))
	got, err := Get(db, account)
	require.NoError(t, err)
	require.Equal(t, ch, got)
}
