package pricer

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BybitPricer struct {
	client *bybit.Client
}

func NewBybitPricer(client *bybit.Client) *BybitPricer {
	return &BybitPricer{client: client}
}

func (p *BybitPricer) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))

	var lastErr error
	for _, s := range symbols {
		symbol := bybit.SymbolV5(s)
		result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: "spot",
			Symbol:   &symbol,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(result.Result.Spot.List) == 0 {
			continue
		}
		price, err := decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
		if err != nil {
			lastErr = errors.Wrapf(err, "parse bybit price for %s", s)
			continue
		}
		prices[s] = price
	}

	if len(prices) == 0 && lastErr != nil {
		return nil, errors.Wrap(lastErr, "bybit price fetch failed for all symbols")
	}

	return prices, nil
}
