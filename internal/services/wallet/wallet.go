package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Wallet is the account oracle: it reads free balances from the venue.
type Wallet interface {
	// FreeBalances returns free amounts for every asset the account holds.
	// Only assets with a positive free or locked amount need appear.
	FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error)
	// FreeBalance returns the free amount of a single asset, zero if absent.
	FreeBalance(ctx context.Context, asset string) (decimal.Decimal, error)
}
