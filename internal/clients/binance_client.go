package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient builds a Binance spot client. Testnet routing is a
// package-level switch in the SDK, so it must be decided before any client
// is created.
func NewBinanceClient(apiKey, apiSecret string, testnet bool) *binance.Client {
	binance.UseTestnet = testnet
	return binance.NewClient(apiKey, apiSecret)
}
