package domain

import "time"

// PairReport is the per-pair slice of a cycle snapshot.
// String fields avoid precision issues when rendered in UI layers.
type PairReport struct {
	Name          string `json:"name"`
	CoinA         string `json:"coin_a"`
	CoinB         string `json:"coin_b"`
	PriceA        string `json:"price_a"`
	PriceB        string `json:"price_b"`
	Ratio         string `json:"ratio"`
	UpperRatio    string `json:"upper_ratio"`
	LowerRatio    string `json:"lower_ratio"`
	AllocationPct string `json:"allocation_pct"`
	BalanceA      string `json:"bal_a"`
	BalanceB      string `json:"bal_b"`
	BalanceStable string `json:"bal_stable"`
	PairValue     string `json:"value_pair"`
	MaxCapital    string `json:"max_capital"`
	CurrentAsset  string `json:"current_asset"`
	Plan          string `json:"next_plan"`
}

// CycleSnapshot is the sole externally observable artifact of one rebalance cycle.
type CycleSnapshot struct {
	Timestamp      time.Time    `json:"ts"`
	StableAsset    string       `json:"stable_asset"`
	Simulate       bool         `json:"simulate"`
	ReferencePrice string       `json:"reference_price,omitempty"`
	TotalValue     string       `json:"total_value_stable"`
	Pairs          []PairReport `json:"pairs"`
}

// CycleSnapshotRecord bundles a snapshot with the log index it originated from.
type CycleSnapshotRecord struct {
	Index    uint64
	Snapshot CycleSnapshot
}
