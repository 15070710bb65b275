package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/rotor/internal/services/trader"
	"go.uber.org/zap"
)

// RotationPhase names the stages of the two-leg sell-then-buy execution so
// partial failures are explicit states instead of control-flow accidents.
type RotationPhase int

const (
	// PhasePendingSell: nothing has reached the venue yet.
	PhasePendingSell RotationPhase = iota
	// PhaseSellConfirmed: the sell leg executed; held value now sits in the stable asset.
	PhaseSellConfirmed
	// PhaseBuyAttempted: the buy leg was submitted but its outcome is not success.
	PhaseBuyAttempted
	// PhaseRotationComplete: both legs executed.
	PhaseRotationComplete
)

func (p RotationPhase) String() string {
	switch p {
	case PhasePendingSell:
		return "pending_sell"
	case PhaseSellConfirmed:
		return "sell_confirmed"
	case PhaseBuyAttempted:
		return "buy_attempted"
	case PhaseRotationComplete:
		return "rotation_complete"
	default:
		return "unknown"
	}
}

// RotationPlan is the sized order pair the engine hands to an executor.
type RotationPlan struct {
	PairName   string
	SellSymbol string
	SellQty    decimal.Decimal
	BuySymbol  string
	BuyPrice   decimal.Decimal
	// MaxCapital caps the stable amount deployed on the buy leg.
	MaxCapital decimal.Decimal
	Stable     string
	// StableBalance is the stable balance observed at the top of the tick.
	// The live executor ignores it and re-reads the venue after the sell;
	// the simulator has no sell proceeds to read, so it plans with this.
	StableBalance decimal.Decimal
}

// RotationResult reports how far a rotation got.
type RotationResult struct {
	Phase      RotationPhase
	SellQty    decimal.Decimal
	BuyQty     decimal.Decimal
	BuySkipped bool
	// BuyErr holds the buy-leg venue error; the rotation still counts as
	// committed because the sell already happened.
	BuyErr    error
	Simulated bool
}

// SellCommitted reports whether the sell leg reached the venue, which is the
// point of no return for the pair's held-asset state.
func (r RotationResult) SellCommitted() bool {
	return !r.Simulated && r.Phase >= PhaseSellConfirmed
}

// Executor runs the two legs of a rotation. Exactly two implementations
// exist: live venue execution and a side-effect-free simulator.
type Executor interface {
	Rotate(ctx context.Context, plan RotationPlan) (RotationResult, error)
}

type stableBalanceReader interface {
	FreeBalance(ctx context.Context, asset string) (decimal.Decimal, error)
}

// LiveExecutor submits both legs to the venue, re-reading the settled
// stable balance between them.
type LiveExecutor struct {
	trader trader.Trader
	wallet stableBalanceReader
	logger *zap.Logger
}

func NewLiveExecutor(trader trader.Trader, wallet stableBalanceReader, logger *zap.Logger) *LiveExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveExecutor{trader: trader, wallet: wallet, logger: logger}
}

func (x *LiveExecutor) Rotate(ctx context.Context, plan RotationPlan) (RotationResult, error) {
	res := RotationResult{Phase: PhasePendingSell, SellQty: plan.SellQty}

	sellID := fmt.Sprintf("rotor-s-%s", uuid.NewString())
	if err := x.trader.MarketSell(ctx, plan.SellSymbol, plan.SellQty, sellID); err != nil {
		// a failed sell must never be paired with a buy: that would spend
		// stable balance that was never received
		return res, errors.Wrapf(err, "sell leg failed for %s", plan.SellSymbol)
	}
	res.Phase = PhaseSellConfirmed

	// realized proceeds of a market order are not knowable from the last
	// price, so read the settled stable balance instead of computing it
	stableBal, err := x.wallet.FreeBalance(ctx, plan.Stable)
	if err != nil {
		x.logger.Warn("stable balance refresh failed after sell, skipping buy leg",
			zap.String("pair", plan.PairName), zap.Error(err))
		res.BuySkipped = true
		return res, nil
	}

	stableForPair := decimal.Min(stableBal, plan.MaxCapital)
	if !stableForPair.GreaterThan(decimal.Zero) {
		x.logger.Warn("no stable balance after sell, skipping buy leg",
			zap.String("pair", plan.PairName), zap.String("stable_balance", stableBal.String()))
		res.BuySkipped = true
		return res, nil
	}

	buyQty := stableForPair.Div(plan.BuyPrice).RoundFloor(4)
	if !buyQty.GreaterThan(decimal.Zero) {
		res.BuySkipped = true
		return res, nil
	}

	res.Phase = PhaseBuyAttempted
	buyID := fmt.Sprintf("rotor-b-%s", uuid.NewString())
	if err := x.trader.MarketBuy(ctx, plan.BuySymbol, buyQty, buyID); err != nil {
		// the sell is already committed; report the stranded stable capital
		// instead of reverting state, retry comes on a later tick
		res.BuyErr = err
		return res, nil
	}

	res.Phase = PhaseRotationComplete
	res.BuyQty = buyQty
	return res, nil
}

// SimulateExecutor computes and logs both legs without touching the venue.
// It never commits anything, so repeated simulated runs leave pair state
// exactly where it started.
type SimulateExecutor struct {
	logger *zap.Logger
}

func NewSimulateExecutor(logger *zap.Logger) *SimulateExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulateExecutor{logger: logger}
}

func (x *SimulateExecutor) Rotate(ctx context.Context, plan RotationPlan) (RotationResult, error) {
	res := RotationResult{Phase: PhasePendingSell, SellQty: plan.SellQty, Simulated: true}

	stableForPair := decimal.Min(plan.StableBalance, plan.MaxCapital)
	if stableForPair.GreaterThan(decimal.Zero) {
		res.BuyQty = stableForPair.Div(plan.BuyPrice).RoundFloor(4)
	} else {
		res.BuySkipped = true
	}

	x.logger.Info("[simulate] rotation planned, no orders submitted",
		zap.String("pair", plan.PairName),
		zap.String("sell_symbol", plan.SellSymbol),
		zap.String("sell_qty", plan.SellQty.String()),
		zap.String("buy_symbol", plan.BuySymbol),
		zap.String("buy_qty", res.BuyQty.String()))

	return res, nil
}
