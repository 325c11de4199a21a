// internal/units/units.go
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Common decimals scales seen on the contracts this tool talks to.
const (
	DecimalsStable = 6  // USDT / USDC
	DecimalsSPL    = 9  // most Solana mints and some reward tokens
	DecimalsNative = 18 // ETH and standard ERC-20 tokens
)

var (
	ErrEmptyAmount    = errors.New("empty amount")
	ErrInvalidAmount  = errors.New("invalid integer amount")
	ErrNegativeAmount = errors.New("negative amount")
	ErrBadDecimals    = errors.New("decimals out of range")
)

// Normalize converts an integer in the token's smallest unit into whole tokens.
// The division is exact; precision is only lost in the final float64 conversion.
func Normalize(raw *big.Int, decimals int) float64 {
	if raw == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(raw, -int32(decimals)).Float64()
	return f
}

// NormalizeString parses a base-10 integer string and normalizes it.
func NormalizeString(raw string, decimals int) (float64, error) {
	n, err := ParseRaw(raw)
	if err != nil {
		return 0, err
	}
	return Normalize(n, decimals), nil
}

// ParseRaw parses a non-negative base-10 integer of arbitrary size.
func ParseRaw(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyAmount
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, raw)
	}
	return n, nil
}

// ToRaw converts a decimal amount ("12.5") into the smallest unit.
// Fractional digits beyond the token's precision are truncated.
func ToRaw(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > 36 {
		return nil, fmt.Errorf("%w: %d", ErrBadDecimals, decimals)
	}
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, amount)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FloatToRaw is ToRaw for figures that are already float64 (admin parameter updates).
func FloatToRaw(amount float64, decimals int) (*big.Int, error) {
	return ToRaw(decimal.NewFromFloat(amount).String(), decimals)
}

// Pow10 returns 10^decimals as float64.
func Pow10(decimals int) float64 {
	f, _ := decimal.New(1, int32(decimals)).Float64()
	return f
}
