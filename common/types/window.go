package types

import (
	"math"
	"time"
)

// Window is the freshness policy of a consumer. A proof with timestamp t is
// accepted at now iff t >= ValidFrom and now <= t + ValidPeriod.
type Window struct {
	ValidFrom   uint64
	ValidPeriod time.Duration
}

// Fresh checks timestamp against the window at now. Timestamps are unix seconds.
func (w Window) Fresh(timestamp, now uint64) bool {
	if timestamp < w.ValidFrom {
		return false
	}
	period := uint64(0)
	if w.ValidPeriod > 0 {
		period = uint64(w.ValidPeriod / time.Second)
	}
	expiry := timestamp + period
	if expiry < timestamp {
		expiry = math.MaxUint64
	}
	return now <= expiry
}
