package engine

import (
	"time"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/policy"
)

// Config of the engine.
type Config struct {
	// DefaultValidFrom and DefaultValidPeriod form the window of consumers that
	// never configured their own.
	DefaultValidFrom   uint64        `mapstructure:"default-valid-from"`
	DefaultValidPeriod time.Duration `mapstructure:"default-valid-period"`
	// Pool is the account that holds campaign budgets.
	Pool types.Address `mapstructure:"pool"`
	// SignersCacheSize is the number of signer membership answers kept in memory.
	SignersCacheSize int `mapstructure:"signers-cache-size"`
}

// DefaultConfig for the engine.
func DefaultConfig() Config {
	w := policy.DefaultWindow()
	return Config{
		DefaultValidFrom:   w.ValidFrom,
		DefaultValidPeriod: w.ValidPeriod,
		Pool:               types.BytesToAddress([]byte("solve3.pool")),
		SignersCacheSize:   1024,
	}
}

// DefaultWindow returns the window of unconfigured consumers.
func (c Config) DefaultWindow() types.Window {
	return types.Window{ValidFrom: c.DefaultValidFrom, ValidPeriod: c.DefaultValidPeriod}
}
