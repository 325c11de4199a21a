package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 18, cfg.Decimals.Token)
	assert.Equal(t, 6, cfg.Decimals.Stable)
	assert.Equal(t, DefaultPresaleRefresh, cfg.Presale.RefreshInterval)
	assert.Equal(t, 5*time.Minute, cfg.Price.Interval)
	assert.Equal(t, 100, cfg.Staking.PageSize)
	assert.Equal(t, "9000000", cfg.Rewards.TokenPerBlockRaw)
	assert.Equal(t, 9, cfg.Rewards.Decimals)
	assert.Equal(t, 0.015, cfg.Rewards.TokenPrice)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
rpc_url: https://rpc.example.org
contracts:
  presale: "0x9d5a383581882750ce27f84c72f017b378edb736"
presale:
  target_date: "2024-12-01T00:00:00Z"
  refresh_interval: 30s
price:
  url: https://api.geckoterminal.com/api/v2/simple/networks/base/token_price/0x9d5a
  key_path: data.attributes.token_prices.0x9d5a
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.org", cfg.RPCURL)
	assert.Equal(t, "0x9d5a383581882750ce27f84c72f017b378edb736", cfg.Contracts.Presale)
	assert.Equal(t, 30*time.Second, cfg.Presale.RefreshInterval)

	target, ok, err := cfg.Presale.Target()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), target.UTC())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LAUNCHPAD_RPC_URL", "https://env.example.org")
	t.Setenv("LAUNCHPAD_STAKING_PAGE_SIZE", "50")
	t.Setenv("VITE_PRESALE_CONTRACT_ADDRESS", "0x1111111111111111111111111111111111111111")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.org", cfg.RPCURL)
	assert.Equal(t, 50, cfg.Staking.PageSize)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.Contracts.Presale)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad rpc scheme", "rpc_url: ftp://rpc.example.org"},
		{"bad address", "contracts:\n  staking: \"0x123\""},
		{"bad target date", "presale:\n  target_date: tomorrow"},
		{"zero interval", "price:\n  interval: 0s"},
		{"bad decimals", "decimals:\n  token: 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
