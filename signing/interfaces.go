package signing

import (
	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

//go:generate mockgen -typed -package=signing -destination=./mocks.go -source=./interfaces.go

type membership interface {
	IsSigner(sql.Executor, types.Address) (bool, error)
}
