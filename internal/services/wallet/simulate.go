package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// SimulateWallet is an in-memory account seeded with a stable-asset deposit.
// The simulator never submits orders, so balances stay at their seed values;
// the wallet exists so valuation and sizing run against realistic inputs.
type SimulateWallet struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

func NewSimulateWallet(stable string, deposit decimal.Decimal) *SimulateWallet {
	return &SimulateWallet{
		balances: map[string]decimal.Decimal{stable: deposit},
	}
}

// SetBalance overrides an asset balance, letting simulations start from a
// portfolio that already holds volatile assets.
func (w *SimulateWallet) SetBalance(asset string, amount decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[asset] = amount
}

func (w *SimulateWallet) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(w.balances))
	for asset, amount := range w.balances {
		if amount.GreaterThan(decimal.Zero) {
			out[asset] = amount
		}
	}
	return out, nil
}

func (w *SimulateWallet) FreeBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balances[asset], nil
}
