package signers

import (
	"fmt"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

// Add signer to the authorized set. Adding an existing signer is a no-op.
func Add(db sql.Executor, signer types.Address) error {
	if _, err := db.Exec("insert into signers (address) values (?1) on conflict do nothing;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, signer.Bytes())
		}, nil); err != nil {
		return fmt.Errorf("add signer %s: %w", signer, err)
	}
	return nil
}

// Remove signer from the authorized set.
func Remove(db sql.Executor, signer types.Address) error {
	if _, err := db.Exec("delete from signers where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, signer.Bytes())
		}, nil); err != nil {
		return fmt.Errorf("remove signer %s: %w", signer, err)
	}
	return nil
}

// Has returns true if signer is in the authorized set.
func Has(db sql.Executor, signer types.Address) (bool, error) {
	rows, err := db.Exec("select 1 from signers where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, signer.Bytes())
		}, nil)
	if err != nil {
		return false, fmt.Errorf("has signer %s: %w", signer, err)
	}
	return rows > 0, nil
}

// All returns every authorized signer, ordered by address.
func All(db sql.Executor) ([]types.Address, error) {
	var rst []types.Address
	if _, err := db.Exec("select address from signers order by address;", nil,
		func(stmt *sql.Statement) bool {
			var signer types.Address
			stmt.ColumnBytes(0, signer[:])
			rst = append(rst, signer)
			return true
		}); err != nil {
		return nil, fmt.Errorf("all signers: %w", err)
	}
	return rst, nil
}
