package governance

import (
	"fmt"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

// Owner returns the governance owner. Returns sql.ErrNotFound if it was never set.
func Owner(db sql.Executor) (types.Address, error) {
	var owner types.Address
	rows, err := db.Exec("select owner from governance where id = 1;", nil,
		func(stmt *sql.Statement) bool {
			stmt.ColumnBytes(0, owner[:])
			return false
		})
	if err != nil {
		return types.Address{}, fmt.Errorf("get owner: %w", err)
	}
	if rows == 0 {
		return types.Address{}, fmt.Errorf("owner: %w", sql.ErrNotFound)
	}
	return owner, nil
}

// SetOwner records the initial owner. Returns sql.ErrObjectExists if the owner was set before.
func SetOwner(db sql.Executor, owner types.Address) error {
	if _, err := db.Exec("insert into governance (id, owner) values (1, ?1);",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
		}, nil); err != nil {
		return fmt.Errorf("set owner %s: %w", owner, err)
	}
	return nil
}

// TransferOwner replaces the owner that was set by SetOwner.
func TransferOwner(db sql.Executor, owner types.Address) error {
	rows, err := db.Exec("update governance set owner = ?1 where id = 1 returning id;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
		}, nil)
	if err != nil {
		return fmt.Errorf("transfer owner to %s: %w", owner, err)
	}
	if rows == 0 {
		return fmt.Errorf("transfer owner: %w", sql.ErrNotFound)
	}
	return nil
}
