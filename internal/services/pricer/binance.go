package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

// Prices fetches last prices symbol by symbol. A symbol the venue rejects is
// skipped rather than failing the batch; an error is returned only when no
// symbol could be quoted at all.
func (p *BinancePricer) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))

	var lastErr error
	for _, symbol := range symbols {
		res, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(res) == 0 {
			continue
		}
		price, err := decimal.NewFromString(res[0].Price)
		if err != nil {
			lastErr = errors.Wrapf(err, "parse binance price for %s", symbol)
			continue
		}
		prices[symbol] = price
	}

	if len(prices) == 0 && lastErr != nil {
		return nil, errors.Wrap(lastErr, "binance price fetch failed for all symbols")
	}

	return prices, nil
}
