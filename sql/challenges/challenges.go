package challenges

import (
	"fmt"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

// Get returns the live challenge for the account. Returns sql.ErrNotFound if the
// account never requested one.
func Get(db sql.Executor, account types.Address) (types.Challenge, error) {
	var ch types.Challenge
	rows, err := db.Exec("select timestamp, nonce from challenges where account = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, func(stmt *sql.Statement) bool {
			ch.Timestamp = uint64(stmt.ColumnInt64(0))
			ch.Nonce = uint64(stmt.ColumnInt64(1))
			return false
		})
	if err != nil {
		return types.Challenge{}, fmt.Errorf("get challenge %s: %w", account, err)
	}
	if rows == 0 {
		return types.Challenge{}, fmt.Errorf("challenge %s: %w", account, sql.ErrNotFound)
	}
	return ch, nil
}

// Add inserts the first challenge for the account. Returns sql.ErrObjectExists if
// the account already has one.
func Add(db sql.Executor, account types.Address, ch types.Challenge) error {
	if _, err := db.Exec("insert into challenges (account, timestamp, nonce) values (?1, ?2, ?3);",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
			stmt.BindInt64(2, int64(ch.Timestamp))
			stmt.BindInt64(3, int64(ch.Nonce))
		}, nil); err != nil {
		return fmt.Errorf("add challenge %s: %w", account, err)
	}
	return nil
}

// Replace swaps the live challenge prev with next. It returns false without
// modifying anything if the stored challenge is not equal to prev.
func Replace(db sql.Executor, account types.Address, prev, next types.Challenge) (bool, error) {
	rows, err := db.Exec(`update challenges set timestamp = ?4, nonce = ?5
		where account = ?1 and timestamp = ?2 and nonce = ?3 returning account;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
			stmt.BindInt64(2, int64(prev.Timestamp))
			stmt.BindInt64(3, int64(prev.Nonce))
			stmt.BindInt64(4, int64(next.Timestamp))
			stmt.BindInt64(5, int64(next.Nonce))
		}, nil)
	if err != nil {
		return false, fmt.Errorf("replace challenge %s: %w", account, err)
	}
	return rows > 0, nil
}
