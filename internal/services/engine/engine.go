// Package engine implements the per-pair decision and execution core: the
// held-asset state machine, the ratio trigger, position sizing and the
// two-leg rotation.
package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/rotor/internal/domain"
	"go.uber.org/zap"
)

// ErrPriceUnavailable marks a transient data-availability gap: the pair is
// skipped for the tick with no state change and no orders.
var ErrPriceUnavailable = errors.New("pair price unavailable this tick")

type stateStore interface {
	// State returns the persisted pair state, creating it with defaultAsset
	// on first reference.
	State(name, defaultAsset string) (domain.PairState, error)
	Save(name string, state domain.PairState) error
}

// TickInput is the shared per-tick market view every pair evaluates against.
type TickInput struct {
	Prices     map[string]decimal.Decimal
	Balances   map[string]decimal.Decimal
	TotalValue decimal.Decimal
}

// PairEngine evaluates and executes rotations for one configured pair.
type PairEngine struct {
	pair   domain.RatioPair
	stable string
	exec   Executor
	states stateStore
	logger *zap.Logger
}

func New(logger *zap.Logger, pair domain.RatioPair, stable string, exec Executor, states stateStore) *PairEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairEngine{
		pair:   pair,
		stable: stable,
		exec:   exec,
		states: states,
		logger: logger.With(zap.String("pair", pair.Name)),
	}
}

// Evaluate runs one tick for the pair: trigger check, sizing, and, when the
// trigger fires, the two-leg rotation. It returns the pair's report for the
// cycle snapshot. Errors other than ErrPriceUnavailable mean an execution
// problem; the pair's persisted state is already consistent when they return.
func (e *PairEngine) Evaluate(ctx context.Context, in TickInput) (domain.PairReport, error) {
	symA := e.pair.SymbolA(e.stable)
	symB := e.pair.SymbolB(e.stable)

	priceA, okA := in.Prices[symA]
	priceB, okB := in.Prices[symB]
	if !okA || !okB || !priceB.GreaterThan(decimal.Zero) {
		return domain.PairReport{}, errors.Wrapf(ErrPriceUnavailable, "%s or %s", symA, symB)
	}

	state, err := e.states.State(e.pair.Name, e.pair.CoinA)
	if err != nil {
		return domain.PairReport{}, errors.Wrap(err, "load pair state")
	}

	ratio := priceA.Div(priceB)
	balA := in.Balances[e.pair.CoinA]
	balB := in.Balances[e.pair.CoinB]
	balStable := in.Balances[e.stable]

	maxCapital := in.TotalValue.Mul(e.pair.AllocationPct)
	pairValue := balA.Mul(priceA).Add(balB.Mul(priceB))

	action := e.trigger(state.CurrentAsset, ratio)

	report := domain.PairReport{
		Name:          e.pair.Name,
		CoinA:         e.pair.CoinA,
		CoinB:         e.pair.CoinB,
		PriceA:        priceA.String(),
		PriceB:        priceB.String(),
		Ratio:         ratio.StringFixed(6),
		UpperRatio:    e.pair.UpperRatio.String(),
		LowerRatio:    e.pair.LowerRatio.String(),
		AllocationPct: e.pair.AllocationPct.String(),
		BalanceA:      balA.String(),
		BalanceB:      balB.String(),
		BalanceStable: balStable.String(),
		PairValue:     pairValue.StringFixed(2),
		MaxCapital:    maxCapital.StringFixed(2),
		CurrentAsset:  state.CurrentAsset,
		Plan:          action.String(),
	}

	if action == domain.ActionHold {
		return report, nil
	}

	plan, ok := e.size(action, in, priceA, priceB, maxCapital, pairValue)
	if !ok {
		return report, nil
	}

	e.logger.Info("rotation triggered",
		zap.String("ratio", ratio.StringFixed(6)),
		zap.String("action", action.String()),
		zap.String("sell_symbol", plan.SellSymbol),
		zap.String("sell_qty", plan.SellQty.String()))

	res, err := e.exec.Rotate(ctx, plan)
	if err != nil {
		// sell leg never committed: state and holdings are untouched,
		// the pair is re-evaluated next tick
		return report, errors.Wrapf(err, "rotation aborted for %s", e.pair.Name)
	}

	if res.SellCommitted() {
		target := e.pair.CoinB
		if action == domain.ActionRotateToA {
			target = e.pair.CoinA
		}
		// the sell leg executed, so the pair no longer predominantly holds
		// the old asset; persist before moving to the next pair, whatever
		// happened to the buy leg
		if err := e.states.Save(e.pair.Name, domain.PairState{CurrentAsset: target}); err != nil {
			return report, errors.Wrap(err, "persist pair state after rotation")
		}
		report.CurrentAsset = target
	}

	if res.BuyErr != nil {
		e.logger.Warn("buy leg failed, capital stranded in stable asset until a later tick",
			zap.String("phase", res.Phase.String()),
			zap.Error(res.BuyErr))
	} else if res.BuySkipped && !res.Simulated {
		e.logger.Warn("buy leg skipped, holding stable between legs",
			zap.String("phase", res.Phase.String()))
	} else {
		e.logger.Info("rotation finished",
			zap.String("phase", res.Phase.String()),
			zap.Bool("simulated", res.Simulated),
			zap.String("buy_qty", res.BuyQty.String()))
	}

	return report, nil
}

// trigger applies the ratio band to the held-asset state. Comparisons are
// strict: a ratio exactly on a threshold stays in the dead zone.
func (e *PairEngine) trigger(currentAsset string, ratio decimal.Decimal) domain.Action {
	switch currentAsset {
	case e.pair.CoinA:
		if ratio.GreaterThan(e.pair.UpperRatio) {
			return domain.ActionRotateToB
		}
	case e.pair.CoinB:
		if ratio.LessThan(e.pair.LowerRatio) {
			return domain.ActionRotateToA
		}
	}
	return domain.ActionHold
}

// size computes the sized rotation plan, or reports the rotation is a no-op.
func (e *PairEngine) size(action domain.Action, in TickInput, priceA, priceB, maxCapital, pairValue decimal.Decimal) (RotationPlan, bool) {
	if !pairValue.GreaterThan(decimal.Zero) {
		e.logger.Info("no pair value to trade, skipping rotation")
		return RotationPlan{}, false
	}

	sellCoin, sellPrice := e.pair.CoinA, priceA
	buySymbol, buyPrice := e.pair.SymbolB(e.stable), priceB
	sellSymbol := e.pair.SymbolA(e.stable)
	if action == domain.ActionRotateToA {
		sellCoin, sellPrice = e.pair.CoinB, priceB
		buySymbol, buyPrice = e.pair.SymbolA(e.stable), priceA
		sellSymbol = e.pair.SymbolB(e.stable)
	}

	// hard ceiling on capital moved per rotation, recomputed from the
	// current total every tick
	tradeValue := decimal.Min(pairValue, maxCapital)

	// never sell more than is actually held, even if tradeValue implies more
	sellQty := decimal.Min(in.Balances[sellCoin], tradeValue.Div(sellPrice)).RoundFloor(4)
	if !sellQty.GreaterThan(decimal.Zero) {
		e.logger.Info("computed sell quantity rounds to zero, skipping rotation",
			zap.String("coin", sellCoin))
		return RotationPlan{}, false
	}

	return RotationPlan{
		PairName:      e.pair.Name,
		SellSymbol:    sellSymbol,
		SellQty:       sellQty,
		BuySymbol:     buySymbol,
		BuyPrice:      buyPrice,
		MaxCapital:    maxCapital,
		Stable:        e.stable,
		StableBalance: in.Balances[e.stable],
	}, true
}
