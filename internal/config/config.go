// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	RPCURL      string `mapstructure:"rpc_url"`
	ChainID     int64  `mapstructure:"chain_id"`
	PrivateKey  string `mapstructure:"private_key"`
	Account     string `mapstructure:"account"` // read-only viewer address when no key is set
	PostgresURL string `mapstructure:"postgres_url"`

	Contracts Contracts     `mapstructure:"contracts"`
	Decimals  Decimals      `mapstructure:"decimals"`
	Presale   PresaleConfig `mapstructure:"presale"`
	Staking   StakingConfig `mapstructure:"staking"`
	Price     PriceConfig   `mapstructure:"price"`
	Rewards   RewardsConfig `mapstructure:"rewards"`
	Solana    SolanaConfig  `mapstructure:"solana"`
	Log       LogConfig     `mapstructure:"log"`
}

type Contracts struct {
	Presale      string `mapstructure:"presale"`
	PresaleToken string `mapstructure:"presale_token"`
	Stable       string `mapstructure:"stable"`
	Staking      string `mapstructure:"staking"`
	NFT          string `mapstructure:"nft"`
	PoolFactory  string `mapstructure:"pool_factory"`
}

type Decimals struct {
	Token  int `mapstructure:"token"`
	Stable int `mapstructure:"stable"`
	Native int `mapstructure:"native"`
	Reward int `mapstructure:"reward"`
	Oracle int `mapstructure:"oracle"`
}

type PresaleConfig struct {
	TargetDate      string        `mapstructure:"target_date"` // RFC3339, overrides the on-chain end date
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Target parses TargetDate. ok is false when it is unset.
func (p PresaleConfig) Target() (t time.Time, ok bool, err error) {
	if p.TargetDate == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339, p.TargetDate)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid presale.target_date: %w", err)
	}
	return t, true, nil
}

type StakingConfig struct {
	BlockTime       time.Duration `mapstructure:"block_time"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	PageSize        int           `mapstructure:"page_size"`
}

type PriceConfig struct {
	URL      string        `mapstructure:"url"`
	KeyPath  string        `mapstructure:"key_path"` // dotted, e.g. data.attributes.token_prices.0xabc
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RewardsConfig struct {
	TokenPerBlockRaw string  `mapstructure:"token_per_block_raw"`
	Decimals         int     `mapstructure:"decimals"`
	TokenPrice       float64 `mapstructure:"token_price"`
	BlockTime        float64 `mapstructure:"block_time"` // seconds
	TotalTokens      float64 `mapstructure:"total_tokens"`
}

type SolanaConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
	Mint   string `mapstructure:"mint"`
}

type LogConfig struct {
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

const (
	EnvPrefix = "LAUNCHPAD"

	DefaultPresaleRefresh = 15 * time.Second
	DefaultStakingRefresh = 6 * time.Second
	DefaultBlockTime      = 2 * time.Second
	DefaultPriceInterval  = 5 * time.Minute
	DefaultPriceTimeout   = 10 * time.Second
	DefaultPageSize       = 100
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"rpc_url":      "",
		"chain_id":     0,
		"private_key":  "",
		"account":      "",
		"postgres_url": "",

		"contracts.presale":       "",
		"contracts.presale_token": "",
		"contracts.stable":        "",
		"contracts.staking":       "",
		"contracts.nft":           "",
		"contracts.pool_factory":  "",

		"decimals.token":  18,
		"decimals.stable": 6,
		"decimals.native": 18,
		"decimals.reward": 18,
		"decimals.oracle": 18,

		"presale.target_date":      "",
		"presale.refresh_interval": DefaultPresaleRefresh,

		"staking.block_time":       DefaultBlockTime,
		"staking.refresh_interval": DefaultStakingRefresh,
		"staking.page_size":        DefaultPageSize,

		"price.url":      "",
		"price.key_path": "",
		"price.interval": DefaultPriceInterval,
		"price.timeout":  DefaultPriceTimeout,

		"rewards.token_per_block_raw": "9000000",
		"rewards.decimals":            9,
		"rewards.token_price":         0.015,
		"rewards.block_time":          2.0,
		"rewards.total_tokens":        1000000.0,

		"solana.rpc_url": "",
		"solana.mint":    "",

		"log.file":        "launchpad.log",
		"log.development": false,
	}
}

// legacyEnv maps keys to the variable names the web frontend was deployed with.
var legacyEnv = map[string]string{
	"rpc_url":                 "VITE_RPC_URL",
	"contracts.presale":       "VITE_PRESALE_CONTRACT_ADDRESS",
	"contracts.presale_token": "VITE_PRESALE_TOKEN_ADDRESS",
	"contracts.stable":        "VITE_USDT_ADDRESS",
	"presale.target_date":     "VITE_TARGET_DATE",
}

// LoadConfig reads path (optional), then applies LAUNCHPAD_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL != "" {
		if err := validateURLWithCache(cfg.RPCURL, "http", "ws"); err != nil {
			return fmt.Errorf("invalid rpc_url: %w", err)
		}
	}
	if cfg.Price.URL != "" {
		if err := validateURLWithCache(cfg.Price.URL, "http"); err != nil {
			return fmt.Errorf("invalid price.url: %w", err)
		}
	}
	if cfg.Solana.RPCURL != "" {
		if err := validateURLWithCache(cfg.Solana.RPCURL, "http"); err != nil {
			return fmt.Errorf("invalid solana.rpc_url: %w", err)
		}
	}
	if cfg.PostgresURL != "" {
		if err := validateURLWithCache(cfg.PostgresURL, "postgres"); err != nil {
			return fmt.Errorf("invalid postgres_url: %w", err)
		}
	}
	if err := validateAddresses(cfg); err != nil {
		return err
	}
	if _, _, err := cfg.Presale.Target(); err != nil {
		return err
	}
	return validateNumericParams(cfg)
}

var hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func validateAddresses(cfg *Config) error {
	addrs := map[string]string{
		"contracts.presale":       cfg.Contracts.Presale,
		"contracts.presale_token": cfg.Contracts.PresaleToken,
		"contracts.stable":        cfg.Contracts.Stable,
		"contracts.staking":       cfg.Contracts.Staking,
		"contracts.nft":           cfg.Contracts.NFT,
		"contracts.pool_factory":  cfg.Contracts.PoolFactory,
		"account":                 cfg.Account,
	}
	for key, addr := range addrs {
		if addr != "" && !hexAddress.MatchString(addr) {
			return fmt.Errorf("invalid %s address %q", key, addr)
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.Presale.RefreshInterval <= 0 {
		return errors.New("invalid presale.refresh_interval")
	}
	if cfg.Staking.RefreshInterval <= 0 {
		return errors.New("invalid staking.refresh_interval")
	}
	if cfg.Staking.BlockTime <= 0 {
		return errors.New("invalid staking.block_time")
	}
	if cfg.Staking.PageSize <= 0 {
		return errors.New("invalid staking.page_size")
	}
	if cfg.Price.Interval <= 0 {
		return errors.New("invalid price.interval")
	}
	if cfg.Price.Timeout <= 0 {
		return errors.New("invalid price.timeout")
	}
	for name, d := range map[string]int{
		"decimals.token":   cfg.Decimals.Token,
		"decimals.stable":  cfg.Decimals.Stable,
		"decimals.native":  cfg.Decimals.Native,
		"decimals.reward":  cfg.Decimals.Reward,
		"decimals.oracle":  cfg.Decimals.Oracle,
		"rewards.decimals": cfg.Rewards.Decimals,
	} {
		if d < 0 || d > 36 {
			return fmt.Errorf("invalid %s: %d", name, d)
		}
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocols ...string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	for _, protocol := range protocols {
		if strings.HasPrefix(parsed.Scheme, protocol) {
			urlCache.Store(rawURL, parsed)
			return nil
		}
	}
	return errors.New("invalid URL protocol")
}
