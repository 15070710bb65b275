package engine

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/rotor/internal/domain"
	"go.uber.org/zap"
)

type orderCall struct {
	symbol string
	qty    decimal.Decimal
}

type fakeTrader struct {
	sells   []orderCall
	buys    []orderCall
	sellErr error
	buyErr  error
}

func (t *fakeTrader) MarketSell(_ context.Context, symbol string, qty decimal.Decimal, _ string) error {
	if t.sellErr != nil {
		return t.sellErr
	}
	t.sells = append(t.sells, orderCall{symbol: symbol, qty: qty})
	return nil
}

func (t *fakeTrader) MarketBuy(_ context.Context, symbol string, qty decimal.Decimal, _ string) error {
	if t.buyErr != nil {
		return t.buyErr
	}
	t.buys = append(t.buys, orderCall{symbol: symbol, qty: qty})
	return nil
}

type fakeWallet struct {
	stable decimal.Decimal
	err    error
}

func (w *fakeWallet) FreeBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	return w.stable, w.err
}

type fakeStates struct {
	states map[string]domain.PairState
	saves  int
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[string]domain.PairState)}
}

func (s *fakeStates) State(name, defaultAsset string) (domain.PairState, error) {
	if st, ok := s.states[name]; ok {
		return st, nil
	}
	st := domain.PairState{CurrentAsset: defaultAsset}
	s.states[name] = st
	return st, nil
}

func (s *fakeStates) Save(name string, state domain.PairState) error {
	s.states[name] = state
	s.saves++
	return nil
}

func testPair() domain.RatioPair {
	return domain.RatioPair{
		Name:          "HBAR_DOGE",
		CoinA:         "HBAR",
		CoinB:         "DOGE",
		UpperRatio:    decimal.RequireFromString("1.05"),
		LowerRatio:    decimal.RequireFromString("0.95"),
		AllocationPct: decimal.RequireFromString("0.3"),
	}
}

func tick(priceA, priceB, balA, balB, balStable, total string) TickInput {
	prices := map[string]decimal.Decimal{}
	if priceA != "" {
		prices["HBARUSDT"] = decimal.RequireFromString(priceA)
	}
	if priceB != "" {
		prices["DOGEUSDT"] = decimal.RequireFromString(priceB)
	}
	return TickInput{
		Prices: prices,
		Balances: map[string]decimal.Decimal{
			"HBAR": decimal.RequireFromString(balA),
			"DOGE": decimal.RequireFromString(balB),
			"USDT": decimal.RequireFromString(balStable),
		},
		TotalValue: decimal.RequireFromString(total),
	}
}

func newLiveEngine(t *fakeTrader, w *fakeWallet, s *fakeStates) *PairEngine {
	exec := NewLiveExecutor(t, w, zap.NewNop())
	return New(zap.NewNop(), testPair(), "USDT", exec, s)
}

func TestEvaluateSkipsWhenPriceUnavailable(t *testing.T) {
	trader := &fakeTrader{}
	states := newFakeStates()
	eng := newLiveEngine(trader, &fakeWallet{}, states)

	tests := []struct {
		name string
		in   TickInput
	}{
		{"priceB missing", tick("1.10", "", "100", "0", "0", "1000")},
		{"priceA missing", tick("", "1.00", "100", "0", "0", "1000")},
		{"priceB zero", tick("1.10", "0", "100", "0", "0", "1000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Evaluate(context.Background(), tt.in)
			require.ErrorIs(t, err, ErrPriceUnavailable)
			require.Empty(t, trader.sells)
			require.Empty(t, trader.buys)
			require.Zero(t, states.saves)
		})
	}
}

func TestRatioOnThresholdStaysInDeadZone(t *testing.T) {
	trader := &fakeTrader{}
	states := newFakeStates()
	eng := newLiveEngine(trader, &fakeWallet{}, states)

	// ratio exactly equals the upper threshold, strict comparison must not fire
	report, err := eng.Evaluate(context.Background(), tick("1.05", "1.00", "100", "0", "0", "1000"))
	require.NoError(t, err)
	require.Equal(t, "hold", report.Plan)
	require.Empty(t, trader.sells)
	require.Equal(t, "HBAR", states.states["HBAR_DOGE"].CurrentAsset)
}

func TestRotateAToB(t *testing.T) {
	trader := &fakeTrader{}
	wallet := &fakeWallet{stable: decimal.RequireFromString("109")}
	states := newFakeStates()
	eng := newLiveEngine(trader, wallet, states)

	report, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "100", "0", "0", "1000"))
	require.NoError(t, err)

	// maxCapital = 1000*0.3 = 300, pairValue = 110, tradeValue = 110,
	// sellQty = min(100, 110/1.10) = 100
	require.Len(t, trader.sells, 1)
	require.Equal(t, "HBARUSDT", trader.sells[0].symbol)
	require.True(t, trader.sells[0].qty.Equal(decimal.NewFromInt(100)),
		"sell qty = %s", trader.sells[0].qty)

	// buy leg spends min(refreshedStable, maxCapital) = min(109, 300)
	require.Len(t, trader.buys, 1)
	require.Equal(t, "DOGEUSDT", trader.buys[0].symbol)
	require.True(t, trader.buys[0].qty.Equal(decimal.NewFromInt(109)),
		"buy qty = %s", trader.buys[0].qty)

	require.Equal(t, "DOGE", states.states["HBAR_DOGE"].CurrentAsset)
	require.Equal(t, "DOGE", report.CurrentAsset)
	require.Equal(t, "rotate_to_b", report.Plan)
}

func TestRotateBToA(t *testing.T) {
	trader := &fakeTrader{}
	wallet := &fakeWallet{stable: decimal.RequireFromString("50")}
	states := newFakeStates()
	states.states["HBAR_DOGE"] = domain.PairState{CurrentAsset: "DOGE"}
	eng := newLiveEngine(trader, wallet, states)

	_, err := eng.Evaluate(context.Background(), tick("0.90", "1.00", "0", "80", "0", "1000"))
	require.NoError(t, err)

	require.Len(t, trader.sells, 1)
	require.Equal(t, "DOGEUSDT", trader.sells[0].symbol)
	require.True(t, trader.sells[0].qty.Equal(decimal.NewFromInt(80)))
	require.Len(t, trader.buys, 1)
	require.Equal(t, "HBARUSDT", trader.buys[0].symbol)
	require.Equal(t, "HBAR", states.states["HBAR_DOGE"].CurrentAsset)
}

func TestAllocationCapNeverExceeded(t *testing.T) {
	trader := &fakeTrader{}
	wallet := &fakeWallet{stable: decimal.RequireFromString("1000")}
	states := newFakeStates()
	eng := newLiveEngine(trader, wallet, states)

	// pairValue (1100) exceeds maxCapital (300): sizing caps the sell leg
	_, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "1000", "0", "0", "1000"))
	require.NoError(t, err)

	require.Len(t, trader.sells, 1)
	maxQty := decimal.RequireFromString("300").Div(decimal.RequireFromString("1.10"))
	require.True(t, trader.sells[0].qty.LessThanOrEqual(maxQty),
		"sell qty %s exceeds cap-derived qty %s", trader.sells[0].qty, maxQty)

	// buy leg likewise capped at maxCapital even with more stable available
	require.Len(t, trader.buys, 1)
	require.True(t, trader.buys[0].qty.LessThanOrEqual(decimal.NewFromInt(300)))
}

func TestSellLegFailurePreservesState(t *testing.T) {
	trader := &fakeTrader{sellErr: errors.New("venue rejected")}
	states := newFakeStates()
	eng := newLiveEngine(trader, &fakeWallet{}, states)

	_, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "100", "0", "0", "1000"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPriceUnavailable)

	require.Empty(t, trader.buys, "a failed sell must never be paired with a buy")
	require.Equal(t, "HBAR", states.states["HBAR_DOGE"].CurrentAsset)
	require.Zero(t, states.saves)
}

func TestBuyLegFailureStillFlipsState(t *testing.T) {
	trader := &fakeTrader{buyErr: errors.New("venue rejected")}
	wallet := &fakeWallet{stable: decimal.RequireFromString("100")}
	states := newFakeStates()
	eng := newLiveEngine(trader, wallet, states)

	_, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "100", "0", "0", "1000"))
	require.NoError(t, err)

	require.Len(t, trader.sells, 1)
	require.Empty(t, trader.buys)
	require.Equal(t, "DOGE", states.states["HBAR_DOGE"].CurrentAsset)
	require.Equal(t, 1, states.saves)
}

func TestZeroStableAfterSellSkipsBuyButTransitions(t *testing.T) {
	trader := &fakeTrader{}
	wallet := &fakeWallet{stable: decimal.Zero}
	states := newFakeStates()
	eng := newLiveEngine(trader, wallet, states)

	_, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "100", "0", "0", "1000"))
	require.NoError(t, err)

	require.Len(t, trader.sells, 1)
	require.Empty(t, trader.buys)
	// the sell already happened; holding stable between legs is the correct,
	// if degraded, outcome
	require.Equal(t, "DOGE", states.states["HBAR_DOGE"].CurrentAsset)
}

func TestNoPairValueSkipsRotation(t *testing.T) {
	trader := &fakeTrader{}
	states := newFakeStates()
	eng := newLiveEngine(trader, &fakeWallet{}, states)

	report, err := eng.Evaluate(context.Background(), tick("1.10", "1.00", "0", "0", "0", "1000"))
	require.NoError(t, err)
	require.Equal(t, "rotate_to_b", report.Plan)
	require.Empty(t, trader.sells)
	require.Zero(t, states.saves)
}

func TestSimulateNeverAdvancesState(t *testing.T) {
	states := newFakeStates()
	exec := NewSimulateExecutor(zap.NewNop())
	eng := New(zap.NewNop(), testPair(), "USDT", exec, states)

	in := tick("1.10", "1.00", "100", "0", "500", "1000")
	for i := 0; i < 5; i++ {
		report, err := eng.Evaluate(context.Background(), in)
		require.NoError(t, err)
		require.Equal(t, "rotate_to_b", report.Plan)
		require.Equal(t, "HBAR", report.CurrentAsset)
	}

	require.Equal(t, "HBAR", states.states["HBAR_DOGE"].CurrentAsset)
	require.Zero(t, states.saves, "simulated runs must not rotate state")
}

func TestLiveExecutorPhases(t *testing.T) {
	plan := RotationPlan{
		PairName:   "HBAR_DOGE",
		SellSymbol: "HBARUSDT",
		SellQty:    decimal.NewFromInt(100),
		BuySymbol:  "DOGEUSDT",
		BuyPrice:   decimal.NewFromInt(1),
		MaxCapital: decimal.NewFromInt(300),
		Stable:     "USDT",
	}

	t.Run("full rotation", func(t *testing.T) {
		exec := NewLiveExecutor(&fakeTrader{}, &fakeWallet{stable: decimal.NewFromInt(100)}, zap.NewNop())
		res, err := exec.Rotate(context.Background(), plan)
		require.NoError(t, err)
		require.Equal(t, PhaseRotationComplete, res.Phase)
		require.True(t, res.SellCommitted())
	})

	t.Run("sell failure", func(t *testing.T) {
		exec := NewLiveExecutor(&fakeTrader{sellErr: errors.New("boom")}, &fakeWallet{}, zap.NewNop())
		res, err := exec.Rotate(context.Background(), plan)
		require.Error(t, err)
		require.Equal(t, PhasePendingSell, res.Phase)
		require.False(t, res.SellCommitted())
	})

	t.Run("buy failure", func(t *testing.T) {
		exec := NewLiveExecutor(&fakeTrader{buyErr: errors.New("boom")}, &fakeWallet{stable: decimal.NewFromInt(100)}, zap.NewNop())
		res, err := exec.Rotate(context.Background(), plan)
		require.NoError(t, err)
		require.Equal(t, PhaseBuyAttempted, res.Phase)
		require.True(t, res.SellCommitted())
		require.Error(t, res.BuyErr)
	})

	t.Run("balance refresh failure skips buy", func(t *testing.T) {
		exec := NewLiveExecutor(&fakeTrader{}, &fakeWallet{err: errors.New("boom")}, zap.NewNop())
		res, err := exec.Rotate(context.Background(), plan)
		require.NoError(t, err)
		require.Equal(t, PhaseSellConfirmed, res.Phase)
		require.True(t, res.BuySkipped)
		require.True(t, res.SellCommitted())
	})
}
