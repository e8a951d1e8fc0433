package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadLedgerConfig_Defaults(t *testing.T) {
	viper.Reset()

	cfg := LoadLedgerConfig()

	assert.Equal(t, int64(1), cfg.SeedAccountID)
	assert.Equal(t, int64(1000), cfg.SeedInitialBalance)
	assert.Equal(t, 30*time.Second, cfg.BalanceCacheTTL)
}

func TestLoadLedgerConfig_Overrides(t *testing.T) {
	viper.Reset()
	viper.Set("seed.account_id", 7)
	viper.Set("seed.initial_balance", 2500)
	defer viper.Reset()

	cfg := LoadLedgerConfig()

	assert.Equal(t, int64(7), cfg.SeedAccountID)
	assert.Equal(t, int64(2500), cfg.SeedInitialBalance)
}
