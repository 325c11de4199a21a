package price

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/go-resty/resty/v2"

	"github.com/rovshanmuradov/launchpad/internal/units"
)

var (
	ErrBadStatus    = errors.New("unexpected price api status")
	ErrFieldMissing = errors.New("price field missing")
	ErrBadPrice     = errors.New("price field is not a number")
)

// Source produces a USD quote for one fixed token.
type Source interface {
	Quote(ctx context.Context) (float64, error)
}

// HTTPSource reads a price from a JSON API. KeyPath is the nested field holding
// the price, e.g. data.attributes.token_prices.<token address>.
type HTTPSource struct {
	client  *resty.Client
	url     string
	keyPath []string
}

// NewHTTPSource builds a source for url. Requests are not retried; the next
// poll tick is the retry.
func NewHTTPSource(url string, keyPath []string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSource{client: client, url: url, keyPath: keyPath}
}

// NewHTTPSourceWithClient uses an existing http client, mainly for tests.
func NewHTTPSourceWithClient(hc *http.Client, url string, keyPath []string) *HTTPSource {
	return &HTTPSource{client: resty.NewWithClient(hc), url: url, keyPath: keyPath}
}

// GeckoTerminalURL returns the token price endpoint for network/token.
func GeckoTerminalURL(network, token string) string {
	return fmt.Sprintf("https://api.geckoterminal.com/api/v2/simple/networks/%s/token_price/%s", network, token)
}

// GeckoTerminalKeyPath is the key path of a token price in a GeckoTerminal response.
func GeckoTerminalKeyPath(token string) []string {
	return []string{"data", "attributes", "token_prices", strings.ToLower(token)}
}

// ParseKeyPath splits a dotted key path.
func ParseKeyPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func (s *HTTPSource) Quote(ctx context.Context) (float64, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode())
	}
	return extractPrice(resp.Body(), s.keyPath)
}

func extractPrice(body []byte, keyPath []string) (float64, error) {
	js, err := simplejson.NewJson(body)
	if err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	field := js.GetPath(keyPath...)
	if field.Interface() == nil {
		return 0, fmt.Errorf("%w: %s", ErrFieldMissing, strings.Join(keyPath, "."))
	}

	// price APIs commonly send decimals as strings to keep precision
	if str, err := field.String(); err == nil {
		v, perr := strconv.ParseFloat(str, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadPrice, str)
		}
		return v, nil
	}
	v, err := field.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPrice, field.Interface())
	}
	return v, nil
}

// OracleReader returns a raw on-chain price with its decimals.
type OracleReader interface {
	ReadOraclePrice(ctx context.Context) (*big.Int, error)
}

// OracleSource quotes the native coin through the presale contract's price feed.
type OracleSource struct {
	reader   OracleReader
	decimals int
}

func NewOracleSource(reader OracleReader, decimals int) *OracleSource {
	return &OracleSource{reader: reader, decimals: decimals}
}

func (s *OracleSource) Quote(ctx context.Context) (float64, error) {
	raw, err := s.reader.ReadOraclePrice(ctx)
	if err != nil {
		return 0, err
	}
	return units.Normalize(raw, s.decimals), nil
}

// StaticSource always returns the same price.
type StaticSource float64

func (s StaticSource) Quote(context.Context) (float64, error) {
	return float64(s), nil
}

var (
	_ Source = (*HTTPSource)(nil)
	_ Source = (*OracleSource)(nil)
	_ Source = StaticSource(0)
)
