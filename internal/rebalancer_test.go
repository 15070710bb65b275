package internal

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/rotor/config"
	"github.com/vadiminshakov/rotor/internal/domain"
	"go.uber.org/zap"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakePricer struct {
	prices map[string]decimal.Decimal
	err    error
}

func (p *fakePricer) Prices(_ context.Context, _ []string) (map[string]decimal.Decimal, error) {
	return p.prices, p.err
}

type fakeWallet struct {
	balances map[string]decimal.Decimal
	err      error
}

func (w *fakeWallet) FreeBalances(_ context.Context) (map[string]decimal.Decimal, error) {
	return w.balances, w.err
}

func (w *fakeWallet) FreeBalance(_ context.Context, asset string) (decimal.Decimal, error) {
	if w.err != nil {
		return decimal.Zero, w.err
	}
	return w.balances[asset], nil
}

type fakeTrader struct {
	sells []string
	buys  []string
}

func (t *fakeTrader) MarketSell(_ context.Context, symbol string, _ decimal.Decimal, _ string) error {
	t.sells = append(t.sells, symbol)
	return nil
}

func (t *fakeTrader) MarketBuy(_ context.Context, symbol string, _ decimal.Decimal, _ string) error {
	t.buys = append(t.buys, symbol)
	return nil
}

type fakeStates struct {
	states map[string]domain.PairState
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
	return nil
}

type fakeSink struct {
	saved []domain.CycleSnapshot
}

func (s *fakeSink) Save(snapshot domain.CycleSnapshot) error {
	s.saved = append(s.saved, snapshot)
	return nil
}

func testConf() config.Config {
	return config.Config{
		Platform:    "binance",
		StableAsset: "USDT",
		Pairs: []domain.RatioPair{
			{
				Name: "HBAR_DOGE", CoinA: "HBAR", CoinB: "DOGE",
				UpperRatio: d("1.05"), LowerRatio: d("0.95"), AllocationPct: d("0.3"),
			},
			{
				Name: "SOL_ADA", CoinA: "SOL", CoinB: "ADA",
				UpperRatio: d("2.0"), LowerRatio: d("1.8"), AllocationPct: d("0.4"),
			},
		},
	}
}

func TestRunCycle(t *testing.T) {
	pr := &fakePricer{prices: map[string]decimal.Decimal{
		"BTCUSDT":  d("60000"),
		"HBARUSDT": d("1.10"), // ratio 1.10 > 1.05, rotate to DOGE
		"DOGEUSDT": d("1.00"),
		"SOLUSDT":  d("190"), // ratio 1.9, inside the band
		"ADAUSDT":  d("100"),
	}}
	w := &fakeWallet{balances: map[string]decimal.Decimal{
		"USDT": d("100"),
		"HBAR": d("100"),
		"SOL":  d("1"),
	}}
	tr := &fakeTrader{}
	states := &fakeStates{states: make(map[string]domain.PairState)}
	sink := &fakeSink{}

	r := &Rebalancer{
		platform:  "binance",
		pricer:    pr,
		wallet:    w,
		trader:    tr,
		states:    states,
		snapshots: sink,
		logger:    zap.NewNop(),
	}

	snapshot, err := r.RunCycle(context.Background(), testConf())
	require.NoError(t, err)

	// 100 + 100*1.10 + 1*190 = 400
	require.Equal(t, "400.00", snapshot.TotalValue)
	require.Equal(t, "60000", snapshot.ReferencePrice)
	require.Len(t, snapshot.Pairs, 2)

	// first pair rotated, second held
	require.Equal(t, []string{"HBARUSDT"}, tr.sells)
	require.Equal(t, []string{"DOGEUSDT"}, tr.buys)
	require.Equal(t, "DOGE", states.states["HBAR_DOGE"].CurrentAsset)
	require.Equal(t, "SOL", states.states["SOL_ADA"].CurrentAsset)
	require.Equal(t, "rotate_to_b", snapshot.Pairs[0].Plan)
	require.Equal(t, "hold", snapshot.Pairs[1].Plan)

	require.Len(t, sink.saved, 1)
}

func TestRunCyclePairWithMissingPriceIsSkipped(t *testing.T) {
	pr := &fakePricer{prices: map[string]decimal.Decimal{
		// no HBAR or DOGE quotes this tick
		"SOLUSDT": d("190"),
		"ADAUSDT": d("100"),
	}}
	w := &fakeWallet{balances: map[string]decimal.Decimal{"USDT": d("100"), "SOL": d("1")}}
	states := &fakeStates{states: make(map[string]domain.PairState)}
	tr := &fakeTrader{}

	r := &Rebalancer{
		platform: "binance",
		pricer:   pr,
		wallet:   w,
		trader:   tr,
		states:   states,
		logger:   zap.NewNop(),
	}

	snapshot, err := r.RunCycle(context.Background(), testConf())
	require.NoError(t, err)

	// the skipped pair leaves no report and no state, the healthy pair
	// still runs
	require.Len(t, snapshot.Pairs, 1)
	require.Equal(t, "SOL_ADA", snapshot.Pairs[0].Name)
	require.NotContains(t, states.states, "HBAR_DOGE")
	require.Empty(t, tr.sells)
}

func TestRunCycleAbortsWhenOracleFails(t *testing.T) {
	states := &fakeStates{states: make(map[string]domain.PairState)}
	sink := &fakeSink{}

	tests := []struct {
		name   string
		pricer *fakePricer
		wallet *fakeWallet
	}{
		{
			"price oracle error",
			&fakePricer{err: errors.New("venue down")},
			&fakeWallet{balances: map[string]decimal.Decimal{"USDT": d("100")}},
		},
		{
			"account oracle error",
			&fakePricer{prices: map[string]decimal.Decimal{"HBARUSDT": d("1")}},
			&fakeWallet{err: errors.New("venue down")},
		},
		{
			"no prices at all",
			&fakePricer{prices: map[string]decimal.Decimal{}},
			&fakeWallet{balances: map[string]decimal.Decimal{"USDT": d("100")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rebalancer{
				platform:  "binance",
				pricer:    tt.pricer,
				wallet:    tt.wallet,
				states:    states,
				snapshots: sink,
				logger:    zap.NewNop(),
			}

			_, err := r.RunCycle(context.Background(), testConf())
			require.Error(t, err)
			require.Empty(t, states.states, "aborted cycles must not touch state")
			require.Empty(t, sink.saved, "aborted cycles must not emit snapshots")
		})
	}
}

func TestRunCycleSimulateSubmitsNothing(t *testing.T) {
	pr := &fakePricer{prices: map[string]decimal.Decimal{
		"HBARUSDT": d("1.10"),
		"DOGEUSDT": d("1.00"),
		"SOLUSDT":  d("190"),
		"ADAUSDT":  d("100"),
	}}
	w := &fakeWallet{balances: map[string]decimal.Decimal{"USDT": d("100"), "HBAR": d("100")}}
	tr := &fakeTrader{}
	states := &fakeStates{states: make(map[string]domain.PairState)}

	r := &Rebalancer{
		platform: "binance",
		pricer:   pr,
		wallet:   w,
		trader:   tr,
		states:   states,
		logger:   zap.NewNop(),
	}

	conf := testConf()
	conf.Simulate = true

	snapshot, err := r.RunCycle(context.Background(), conf)
	require.NoError(t, err)
	require.True(t, snapshot.Simulate)
	require.Empty(t, tr.sells)
	require.Empty(t, tr.buys)
	require.Equal(t, "HBAR", states.states["HBAR_DOGE"].CurrentAsset)
}

func TestCycleSymbolsDeduplicates(t *testing.T) {
	conf := testConf()
	conf.Pairs = append(conf.Pairs, domain.RatioPair{
		Name: "HBAR_ADA", CoinA: "HBAR", CoinB: "ADA",
		UpperRatio: d("1.1"), LowerRatio: d("0.9"), AllocationPct: d("0.1"),
	})

	symbols := cycleSymbols(conf)
	require.Equal(t, []string{"BTCUSDT", "HBARUSDT", "DOGEUSDT", "SOLUSDT", "ADAUSDT"}, symbols)
}
