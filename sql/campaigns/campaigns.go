package campaigns

import (
	"fmt"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
)

const fields = "id, owner, label, solves_remaining, reward"

func decode(stmt *sql.Statement) *types.Campaign {
	var c types.Campaign
	stmt.ColumnBytes(0, c.ID[:])
	stmt.ColumnBytes(1, c.Owner[:])
	c.Label = stmt.ColumnText(2)
	c.SolvesRemaining = uint32(stmt.ColumnInt64(3))
	reward := make([]byte, stmt.ColumnLen(4))
	stmt.ColumnBytes(4, reward)
	c.Reward = types.AmountFromBytes(reward)
	return &c
}

// Add campaign. Campaigns are ordered by the time they were added.
// Returns sql.ErrObjectExists if a campaign with the same id exists.
func Add(db sql.Executor, c *types.Campaign) error {
	if _, err := db.Exec(`insert into campaigns
		(id, seq, owner, label, solves_total, solves_remaining, reward)
		values (?1, (select coalesce(max(seq), 0) + 1 from campaigns), ?2, ?3, ?4, ?4, ?5);`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, c.ID.Bytes())
			stmt.BindBytes(2, c.Owner.Bytes())
			stmt.BindText(3, c.Label)
			stmt.BindInt64(4, int64(c.SolvesRemaining))
			stmt.BindBytes(5, types.AmountBytes(c.Reward))
		}, nil); err != nil {
		return fmt.Errorf("add campaign %s: %w", c.ID, err)
	}
	return nil
}

// Get campaign by id, including depleted ones.
func Get(db sql.Executor, id types.CampaignID) (*types.Campaign, error) {
	var rst *types.Campaign
	rows, err := db.Exec("select "+fields+" from campaigns where id = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, id.Bytes())
		}, func(stmt *sql.Statement) bool {
			rst = decode(stmt)
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("get campaign %s: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("campaign %s: %w", id, sql.ErrNotFound)
	}
	return rst, nil
}

// Decrement solves of the campaign if it still has solves equal to expected.
// Returns false if campaign is missing or its solves changed.
func Decrement(db sql.Executor, id types.CampaignID, expected uint32) (bool, error) {
	if expected == 0 {
		return false, nil
	}
	rows, err := db.Exec(`update campaigns set solves_remaining = solves_remaining - 1
		where id = ?1 and solves_remaining = ?2 returning id;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, id.Bytes())
			stmt.BindInt64(2, int64(expected))
		}, nil)
	if err != nil {
		return false, fmt.Errorf("decrement campaign %s: %w", id, err)
	}
	return rows > 0, nil
}

// Active returns ids of campaigns with remaining solves in the order they were added.
func Active(db sql.Executor) ([]types.CampaignID, error) {
	var rst []types.CampaignID
	if _, err := db.Exec("select id from campaigns where solves_remaining > 0 order by seq;", nil,
		func(stmt *sql.Statement) bool {
			var id types.CampaignID
			stmt.ColumnBytes(0, id[:])
			rst = append(rst, id)
			return true
		}); err != nil {
		return nil, fmt.Errorf("active campaigns: %w", err)
	}
	return rst, nil
}

// All returns every campaign, including depleted ones, in the order they were added.
func All(db sql.Executor) ([]*types.Campaign, error) {
	var rst []*types.Campaign
	if _, err := db.Exec("select "+fields+" from campaigns order by seq;", nil,
		func(stmt *sql.Statement) bool {
			rst = append(rst, decode(stmt))
			return true
		}); err != nil {
		return nil, fmt.Errorf("all campaigns: %w", err)
	}
	return rst, nil
}
