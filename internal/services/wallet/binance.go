package wallet

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BinanceWallet struct {
	client *binance.Client
}

func NewBinanceWallet(client *binance.Client) *BinanceWallet {
	return &BinanceWallet{client: client}
}

func (w *BinanceWallet) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	account, err := w.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balances")
	}

	balances := make(map[string]decimal.Decimal)
	for _, b := range account.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse free balance for %s", b.Asset)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse locked balance for %s", b.Asset)
		}
		if free.GreaterThan(decimal.Zero) || locked.GreaterThan(decimal.Zero) {
			balances[b.Asset] = free
		}
	}

	return balances, nil
}

func (w *BinanceWallet) FreeBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	balances, err := w.FreeBalances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return balances[asset], nil
}
