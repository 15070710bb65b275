package wallet

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BybitWallet struct {
	client *bybit.Client
}

func NewBybitWallet(client *bybit.Client) *BybitWallet {
	return &BybitWallet{client: client}
}

func (w *BybitWallet) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	res, err := w.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bybit wallet balances")
	}
	if len(res.Result.List) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	balances := make(map[string]decimal.Decimal)
	for _, coin := range res.Result.List[0].Coin {
		amount, err := decimal.NewFromString(coin.WalletBalance)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse bybit balance for %s", coin.Coin)
		}
		if amount.GreaterThan(decimal.Zero) {
			balances[string(coin.Coin)] = amount
		}
	}

	return balances, nil
}

func (w *BybitWallet) FreeBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	balances, err := w.FreeBalances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return balances[asset], nil
}
