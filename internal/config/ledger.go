package config

import (
	"time"

	"github.com/spf13/viper"
)

// LedgerConfig holds the deployment defaults of the ledger itself.
// The fixed seed account (id=1, balance=1000) is a deployment choice,
// not part of the charge protocol, so it lives here.
type LedgerConfig struct {
	SeedAccountID      int64
	SeedInitialBalance int64
	BalanceCacheTTL    time.Duration
}

// LoadLedgerConfig returns ledger configuration with defaults.
func LoadLedgerConfig() *LedgerConfig {
	viper.SetDefault("seed.account_id", 1)
	viper.SetDefault("seed.initial_balance", 1000)
	viper.SetDefault("ledger.balance_cache_ttl", 30*time.Second)

	return &LedgerConfig{
		SeedAccountID:      viper.GetInt64("seed.account_id"),
		SeedInitialBalance: viper.GetInt64("seed.initial_balance"),
		BalanceCacheTTL:    viper.GetDuration("ledger.balance_cache_ttl"),
	}
}
