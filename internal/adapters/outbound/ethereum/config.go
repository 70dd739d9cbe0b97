package ethereum

import (
	"crypto/ecdsa"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

// Default configuration values.
const (
	defaultReceiptPollInterval = 500 * time.Millisecond
	defaultReceiptTimeout      = 2 * time.Minute
	defaultRateLimit           = rate.Limit(20)
	defaultRateBurst           = 5
)

// DefaultCaller is the sender for calls without a caller override.
var DefaultCaller = common.HexToAddress(entity.DefaultCallerAddress)

// Config holds the configuration for the JSON-RPC connector.
type Config struct {
	// Networks resolves network names to RPC endpoints.
	Networks *Registry

	// PrivateKey switches sessions to local signing.
	// When nil, transactions are sent with eth_sendTransaction and the node signs.
	PrivateKey *ecdsa.PrivateKey

	// DefaultFrom is the sender for calls that carry no caller override.
	// Ignored when PrivateKey is set. Defaults to DefaultCaller.
	DefaultFrom common.Address

	// ReceiptPollInterval is how often eth_getTransactionReceipt is polled.
	// Defaults to 500ms if not set.
	ReceiptPollInterval time.Duration

	// ReceiptTimeout bounds how long a submitted transaction is awaited.
	// Defaults to 2 minutes if not set.
	ReceiptTimeout time.Duration

	// RateLimit paces RPC requests per session. Defaults to 20/s with a burst of 5.
	RateLimit rate.Limit
	RateBurst int

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// ConfigDefaults returns a config with default values and the built-in networks.
func ConfigDefaults() Config {
	return Config{
		Networks:            DefaultRegistry(),
		DefaultFrom:         DefaultCaller,
		ReceiptPollInterval: defaultReceiptPollInterval,
		ReceiptTimeout:      defaultReceiptTimeout,
		RateLimit:           defaultRateLimit,
		RateBurst:           defaultRateBurst,
		Logger:              slog.Default(),
	}
}

func (c *Config) applyDefaults() {
	if c.Networks == nil {
		c.Networks = DefaultRegistry()
	}
	if c.DefaultFrom == (common.Address{}) {
		c.DefaultFrom = DefaultCaller
	}
	if c.ReceiptPollInterval <= 0 {
		c.ReceiptPollInterval = defaultReceiptPollInterval
	}
	if c.ReceiptTimeout <= 0 {
		c.ReceiptTimeout = defaultReceiptTimeout
	}
	if c.RateLimit <= 0 {
		c.RateLimit = defaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = defaultRateBurst
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
