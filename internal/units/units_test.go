package units

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals int
		want     float64
	}{
		{"usdt six decimals", "15000000", 6, 15},
		{"reward token nine decimals", "9000000", 9, 0.009},
		{"one ether", "1000000000000000000", 18, 1},
		{"zero decimals", "42", 0, 42},
		{"beyond uint64", "123456789000000000000000000", 18, 123456789},
		{"zero", "0", 18, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeString(tt.raw, tt.decimals)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.want*1e-12+1e-18)
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(nil, 18))
}

func TestNormalizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		n := new(big.Int).Rand(rng, new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil))
		d := rng.Intn(19)

		got := Normalize(n, d) * math.Pow10(d)
		want, _ := new(big.Float).SetInt(n).Float64()

		assert.InDelta(t, want, got, want*1e-12+1e-9, "n=%s d=%d", n, d)
	}
}

func TestParseRawRejectsGarbage(t *testing.T) {
	_, err := ParseRaw("")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseRaw("12abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseRaw("-5")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestToRaw(t *testing.T) {
	raw, err := ToRaw("12.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "12500000", raw.String())

	raw, err = ToRaw("0.1234567", 6)
	require.NoError(t, err)
	assert.Equal(t, "123456", raw.String(), "extra digits are truncated")

	raw, err = ToRaw("1", 18)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", raw.String())

	_, err = ToRaw("-1", 18)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ToRaw("abc", 18)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFloatToRaw(t *testing.T) {
	raw, err := FloatToRaw(200000, 18)
	require.NoError(t, err)
	assert.Equal(t, "200000000000000000000000", raw.String())
}

func TestCompactPrice(t *testing.T) {
	p := CompactPrice(0.075, 4)
	assert.Equal(t, "0", p.Integer)
	assert.Equal(t, 1, p.LeadingZeros)
	assert.Equal(t, "75", p.Significant[:2])
	assert.Equal(t, "$0.₁7500", p.String())

	assert.Equal(t, "$0.₅1234", FormatCompactPrice(0.000001234, 4))
	assert.Equal(t, "$1.2500", FormatCompactPrice(1.25, 4))
	assert.Equal(t, "$0.0000", FormatCompactPrice(0, 4))
	assert.Equal(t, "$+Inf", FormatCompactPrice(math.Inf(1), 4))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,000,000", FormatAmount(1000000, 0))
	assert.Equal(t, "75,000.00", FormatAmount(75000, 2))
	assert.Equal(t, "-600,000", FormatAmount(-600000, 0))
	assert.Equal(t, "999", FormatAmount(999, 0))
	assert.Equal(t, "$15,000.50", FormatUSD(15000.5))
	assert.Equal(t, "-$3.00", FormatUSD(-3))
	assert.Equal(t, "12.50%", FormatPercent(12.5))
}
