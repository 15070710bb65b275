package wallet

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSimulateWalletSeededDeposit(t *testing.T) {
	w := NewSimulateWallet("USDT", decimal.NewFromInt(10000))

	balances, err := w.FreeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	require.True(t, balances["USDT"].Equal(decimal.NewFromInt(10000)))
}

func TestSimulateWalletSetBalance(t *testing.T) {
	w := NewSimulateWallet("USDT", decimal.NewFromInt(1000))
	w.SetBalance("HBAR", decimal.NewFromInt(500))
	w.SetBalance("DOGE", decimal.Zero)

	balances, err := w.FreeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 2, "zero balances are omitted")

	hbar, err := w.FreeBalance(context.Background(), "HBAR")
	require.NoError(t, err)
	require.True(t, hbar.Equal(decimal.NewFromInt(500)))

	missing, err := w.FreeBalance(context.Background(), "PEPE")
	require.NoError(t, err)
	require.True(t, missing.IsZero())
}
