package campaign

import (
	"github.com/holiman/uint256"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

//go:generate mockgen -typed -package=campaign -destination=./mocks.go -source=./interface.go

// Bank moves reward tokens. Calls receive the executor of the ongoing transaction,
// implementations that keep balances elsewhere may ignore it.
type Bank interface {
	Transfer(db sql.Executor, from, to types.Address, amount *uint256.Int) error
	TransferFrom(db sql.Executor, spender, owner, to types.Address, amount *uint256.Int) error
}

type governor interface {
	Owner() (types.Address, error)
}
