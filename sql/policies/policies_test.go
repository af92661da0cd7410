package policies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

func TestSetGet(t *testing.T) {
	db := sql.InMemory()
	consumer := types.Address{1}

	_, err := Get(db, consumer)
	require.ErrorIs(t, err, sql.ErrNotFound)

	w := types.Window{ValidFrom: 100, ValidPeriod: 5 * time.Minute}
	require.NoError(t, Set(db, consumer, w))
	got, err := Get(db, consumer)
	require.NoError(t, err)
	require.Equal(t, w, got)

	w2 := types.Window{ValidFrom: 50, ValidPeriod: 7 * time.Minute}
	require.NoError(t, Set(db, consumer, w2))
	got, err = Get(db, consumer)
	require.NoError(t, err)
	require.Equal(t, w2, got)

	_, err = Get(db, types.Address{2})
	require.ErrorIs(t, err, sql.ErrNotFound)
}
