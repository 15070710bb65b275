package trader

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BybitTrader struct {
	client *bybit.Client
}

func NewBybitTrader(client *bybit.Client) *BybitTrader {
	return &BybitTrader{client: client}
}

func (t *BybitTrader) MarketSell(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error {
	orderLinkID := clientOrderID
	_, err := t.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    "spot",
		Symbol:      bybit.SymbolV5(symbol),
		Side:        bybit.SideSell,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         qty.RoundFloor(4).String(),
		OrderLinkID: &orderLinkID,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create bybit sell order for %s", symbol)
	}
	return nil
}

func (t *BybitTrader) MarketBuy(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error {
	orderLinkID := clientOrderID
	_, err := t.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    "spot",
		Symbol:      bybit.SymbolV5(symbol),
		Side:        bybit.SideBuy,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         qty.RoundFloor(4).String(),
		OrderLinkID: &orderLinkID,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create bybit buy order for %s", symbol)
	}
	return nil
}
