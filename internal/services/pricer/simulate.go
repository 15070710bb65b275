package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/rotor/pkg/retrier"
)

// SimulatePricer serves real Binance public prices to the simulator.
// Public reads are retried with backoff; no orders depend on them, so
// retrying here cannot double-submit anything.
type SimulatePricer struct {
	inner   *BinancePricer
	retrier *retrier.Retrier
}

func NewSimulatePricer(client *binance.Client) *SimulatePricer {
	return &SimulatePricer{
		inner:   NewBinancePricer(client),
		retrier: retrier.New(retrier.WithMaxRetries(3)),
	}
}

func (p *SimulatePricer) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	return retrier.DoWithData(p.retrier, ctx, func(ctx context.Context) (map[string]decimal.Decimal, error) {
		return p.inner.Prices(ctx, symbols)
	})
}
