// Package valuator converts balance and price snapshots into a single
// stable-asset-denominated portfolio total.
package valuator

import (
	"github.com/shopspring/decimal"
)

// TotalValue sums every positive balance converted to the stable asset.
// The stable asset counts at face value; any other asset converts through
// its asset+stable symbol. Assets without a known price this tick are
// excluded rather than valued at zero: missing prices degrade precision,
// they never fail the call.
func TotalValue(balances, prices map[string]decimal.Decimal, stable string) decimal.Decimal {
	total := decimal.Zero
	for asset, amount := range balances {
		if !amount.GreaterThan(decimal.Zero) {
			continue
		}
		if asset == stable {
			total = total.Add(amount)
			continue
		}
		if price, ok := prices[asset+stable]; ok {
			total = total.Add(amount.Mul(price))
		}
	}
	return total
}
