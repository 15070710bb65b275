package trader

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BinanceTrader struct {
	client *binance.Client
}

func NewBinanceTrader(client *binance.Client) *BinanceTrader {
	return &BinanceTrader{client: client}
}

func (t *BinanceTrader) MarketSell(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error {
	_, err := t.client.NewCreateOrderService().Symbol(symbol).
		Side(binance.SideTypeSell).Type(binance.OrderTypeMarket).
		Quantity(qty.RoundFloor(4).String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to create binance sell order for %s", symbol)
	}
	return nil
}

func (t *BinanceTrader) MarketBuy(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error {
	_, err := t.client.NewCreateOrderService().Symbol(symbol).
		Side(binance.SideTypeBuy).Type(binance.OrderTypeMarket).
		Quantity(qty.RoundFloor(4).String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to create binance buy order for %s", symbol)
	}
	return nil
}
