package domain

// PairState is the durable per-pair record of which asset the pair currently holds.
// CurrentAsset is always one of the pair's two configured coins; it is created
// with CoinA on first reference and mutated only by a completed rotation.
type PairState struct {
	CurrentAsset string `json:"current_asset"`
}
