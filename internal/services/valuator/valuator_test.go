package valuator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotalValue(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"USDT": d("250"),
		"HBAR": d("100"),
		"DOGE": d("50"),
	}
	prices := map[string]decimal.Decimal{
		"HBARUSDT": d("1.10"),
		"DOGEUSDT": d("0.20"),
	}

	// 250 + 100*1.10 + 50*0.20 = 370
	total := TotalValue(balances, prices, "USDT")
	require.True(t, total.Equal(d("370")), "total = %s", total)
}

func TestTotalValueExcludesUnpricedAssets(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"USDT": d("100"),
		"HBAR": d("100"),
		"PEPE": d("99999"),
	}
	prices := map[string]decimal.Decimal{
		"HBARUSDT": d("1"),
	}

	total := TotalValue(balances, prices, "USDT")
	require.True(t, total.Equal(d("200")), "total = %s", total)
}

func TestTotalValueEmpty(t *testing.T) {
	total := TotalValue(nil, nil, "USDT")
	require.True(t, total.IsZero())
}
