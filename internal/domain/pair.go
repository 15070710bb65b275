// Package domain defines core data structures used throughout the rotation bot.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatioPair is a configured pair of volatile assets rotated against each other.
// Both coins must be quotable against the stable asset.
type RatioPair struct {
	// Name uniquely identifies the pair, e.g. "HBAR_DOGE".
	Name string
	// CoinA first asset symbol.
	CoinA string
	// CoinB second asset symbol.
	CoinB string
	// UpperRatio fires a rotation A->B when the held asset is CoinA and ratio exceeds it.
	UpperRatio decimal.Decimal
	// LowerRatio fires a rotation B->A when the held asset is CoinB and ratio drops below it.
	LowerRatio decimal.Decimal
	// AllocationPct fraction of total portfolio value this pair may deploy, in (0, 1].
	AllocationPct decimal.Decimal
}

// SymbolA returns the venue symbol for CoinA quoted in stable, e.g. "HBARUSDT".
func (p *RatioPair) SymbolA(stable string) string {
	return fmt.Sprintf("%s%s", p.CoinA, stable)
}

// SymbolB returns the venue symbol for CoinB quoted in stable.
func (p *RatioPair) SymbolB(stable string) string {
	return fmt.Sprintf("%s%s", p.CoinB, stable)
}

// Validate checks structural invariants of the pair configuration.
func (p *RatioPair) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pair name is required")
	}
	if p.CoinA == "" || p.CoinB == "" {
		return fmt.Errorf("pair %s: both coins are required", p.Name)
	}
	if p.CoinA == p.CoinB {
		return fmt.Errorf("pair %s: coins must differ", p.Name)
	}
	if !p.UpperRatio.GreaterThan(p.LowerRatio) {
		return fmt.Errorf("pair %s: upper_ratio %s must be greater than lower_ratio %s",
			p.Name, p.UpperRatio.String(), p.LowerRatio.String())
	}
	if !p.AllocationPct.GreaterThan(decimal.Zero) || p.AllocationPct.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("pair %s: allocation_pct %s must be in (0, 1]", p.Name, p.AllocationPct.String())
	}
	return nil
}
