package balances

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

func readAmount(stmt *sql.Statement, col int) *uint256.Int {
	buf := make([]byte, stmt.ColumnLen(col))
	stmt.ColumnBytes(col, buf)
	return types.AmountFromBytes(buf)
}

// Balance of the account. Unknown accounts have zero balance.
func Balance(db sql.Executor, account types.Address) (*uint256.Int, error) {
	rst := new(uint256.Int)
	if _, err := db.Exec("select amount from balances where account = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, func(stmt *sql.Statement) bool {
			rst = readAmount(stmt, 0)
			return false
		}); err != nil {
		return nil, fmt.Errorf("balance %s: %w", account, err)
	}
	return rst, nil
}

// SetBalance overwrites balance of the account.
func SetBalance(db sql.Executor, account types.Address, amount *uint256.Int) error {
	if _, err := db.Exec(`insert into balances (account, amount) values (?1, ?2)
		on conflict (account) do update set amount = excluded.amount;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
			stmt.BindBytes(2, types.AmountBytes(amount))
		}, nil); err != nil {
		return fmt.Errorf("set balance %s: %w", account, err)
	}
	return nil
}

// Allowance that owner granted to spender. Zero if never granted.
func Allowance(db sql.Executor, owner, spender types.Address) (*uint256.Int, error) {
	rst := new(uint256.Int)
	if _, err := db.Exec("select amount from allowances where owner = ?1 and spender = ?2;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
			stmt.BindBytes(2, spender.Bytes())
		}, func(stmt *sql.Statement) bool {
			rst = readAmount(stmt, 0)
			return false
		}); err != nil {
		return nil, fmt.Errorf("allowance %s/%s: %w", owner, spender, err)
	}
	return rst, nil
}

// SetAllowance overwrites allowance that owner granted to spender.
func SetAllowance(db sql.Executor, owner, spender types.Address, amount *uint256.Int) error {
	if _, err := db.Exec(`insert into allowances (owner, spender, amount) values (?1, ?2, ?3)
		on conflict (owner, spender) do update set amount = excluded.amount;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
			stmt.BindBytes(2, spender.Bytes())
			stmt.BindBytes(3, types.AmountBytes(amount))
		}, nil); err != nil {
		return fmt.Errorf("set allowance %s/%s: %w", owner, spender, err)
	}
	return nil
}
