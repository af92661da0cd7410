package policies

import (
	"fmt"
	"time"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

// Get returns window configured by the consumer. Returns sql.ErrNotFound if the
// consumer never configured one.
func Get(db sql.Executor, consumer types.Address) (types.Window, error) {
	var w types.Window
	rows, err := db.Exec("select valid_from, valid_period from policies where consumer = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, consumer.Bytes())
		}, func(stmt *sql.Statement) bool {
			w.ValidFrom = uint64(stmt.ColumnInt64(0))
			w.ValidPeriod = time.Duration(stmt.ColumnInt64(1)) * time.Second
			return false
		})
	if err != nil {
		return types.Window{}, fmt.Errorf("get policy %s: %w", consumer, err)
	}
	if rows == 0 {
		return types.Window{}, fmt.Errorf("policy %s: %w", consumer, sql.ErrNotFound)
	}
	return w, nil
}

// Set creates or replaces window for the consumer. Period is stored with second precision.
func Set(db sql.Executor, consumer types.Address, w types.Window) error {
	if _, err := db.Exec(`insert into policies (consumer, valid_from, valid_period) values (?1, ?2, ?3)
		on conflict(consumer) do update set valid_from = ?2, valid_period = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, consumer.Bytes())
			stmt.BindInt64(2, int64(w.ValidFrom))
			stmt.BindInt64(3, int64(w.ValidPeriod/time.Second))
		}, nil); err != nil {
		return fmt.Errorf("set policy %s: %w", consumer, err)
	}
	return nil
}
