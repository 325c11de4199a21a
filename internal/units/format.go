package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var subscriptDigits = []rune{'₀', '₁', '₂', '₃', '₄', '₅', '₆', '₇', '₈', '₉'}

// CompactPriceParts splits a small price into integer part, count of leading
// fractional zeros and the significant digits that follow them.
type CompactPriceParts struct {
	Integer      string
	LeadingZeros int
	Significant  string
}

// CompactPrice renders the price with 18 fractional digits and splits it.
func CompactPrice(price float64, significant int) CompactPriceParts {
	if significant <= 0 {
		significant = 4
	}
	s := decimal.NewFromFloat(price).StringFixed(18)
	integer, frac, _ := strings.Cut(s, ".")

	zeros := len(frac) - len(strings.TrimLeft(frac, "0"))
	if zeros == len(frac) {
		zeros = 0
	}
	end := zeros + significant
	if end > len(frac) {
		end = len(frac)
	}
	return CompactPriceParts{
		Integer:      integer,
		LeadingZeros: zeros,
		Significant:  frac[zeros:end],
	}
}

// String renders "$0.₅1234"; the subscript is omitted when there are no leading zeros.
func (p CompactPriceParts) String() string {
	var b strings.Builder
	b.WriteString("$")
	b.WriteString(p.Integer)
	b.WriteString(".")
	if p.LeadingZeros > 0 {
		for _, r := range strconv.Itoa(p.LeadingZeros) {
			b.WriteRune(subscriptDigits[r-'0'])
		}
	}
	b.WriteString(p.Significant)
	return b.String()
}

// FormatCompactPrice is CompactPrice(price, significant).String().
func FormatCompactPrice(price float64, significant int) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "$" + strconv.FormatFloat(price, 'f', -1, 64)
	}
	return CompactPrice(price, significant).String()
}

// FormatAmount renders a number with thousand separators and fixed precision.
func FormatAmount(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', precision, 64)
	integer, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatUSD renders "$1,234.56".
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + FormatAmount(-v, 2)
	}
	return "$" + FormatAmount(v, 2)
}

// FormatPercent renders "12.34%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
