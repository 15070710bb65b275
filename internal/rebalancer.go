package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/rotor/config"
	"github.com/vadiminshakov/rotor/internal/domain"
	"github.com/vadiminshakov/rotor/internal/services/engine"
	"github.com/vadiminshakov/rotor/internal/services/pricer"
	"github.com/vadiminshakov/rotor/internal/services/trader"
	"github.com/vadiminshakov/rotor/internal/services/valuator"
	"github.com/vadiminshakov/rotor/internal/services/wallet"
)

// referenceCoin is quoted every cycle for the dashboard panel.
const referenceCoin = "BTC"

type pairStateStore interface {
	State(name, defaultAsset string) (domain.PairState, error)
	Save(name string, state domain.PairState) error
}

type snapshotSink interface {
	Save(snapshot domain.CycleSnapshot) error
}

// Rebalancer runs rebalance cycles on a fixed interval. Cycles never
// overlap: the next tick fires only after the previous cycle, including all
// per-pair executions, has finished.
type Rebalancer struct {
	configPath string
	platform   string
	pricer     pricer.Pricer
	wallet     wallet.Wallet
	trader     trader.Trader
	states     pairStateStore
	snapshots  snapshotSink
	logger     *zap.Logger
}

// NewRebalancer wires the controller for the platform chosen at startup.
// Pair lists, thresholds and the simulate flag hot-reload every cycle;
// switching platform requires a restart.
func NewRebalancer(conf config.Config, configPath string, client any, states pairStateStore, snapshots snapshotSink, logger *zap.Logger) (*Rebalancer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := NewServiceProvider(client, conf, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create service provider")
	}

	priceOracle, err := provider.Pricer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pricer")
	}
	accountOracle, err := provider.Wallet()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create wallet")
	}

	r := &Rebalancer{
		configPath: configPath,
		platform:   conf.Platform,
		pricer:     priceOracle,
		wallet:     accountOracle,
		states:     states,
		snapshots:  snapshots,
		logger:     logger,
	}

	if conf.Platform != "simulate" {
		venue, err := provider.Trader()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create trader")
		}
		r.trader = venue
	}

	return r, nil
}

// Run executes cycles until ctx is cancelled. The configuration file is
// re-read before every cycle so edits take effect without a restart.
func (r *Rebalancer) Run(ctx context.Context, conf config.Config) error {
	r.logger.Info("starting rebalance loop",
		zap.String("platform", conf.Platform),
		zap.String("stable", conf.StableAsset),
		zap.Bool("simulate", conf.Simulate),
		zap.Duration("tick_interval", conf.TickInterval),
		zap.Int("pairs", len(conf.Pairs)))

	ticker := time.NewTicker(conf.TickInterval)
	defer ticker.Stop()

	r.runOnce(ctx, conf)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("context done, stopping rebalance loop")
			return ctx.Err()
		case <-ticker.C:
			next := r.reload(conf)
			if next.TickInterval != conf.TickInterval {
				ticker.Reset(next.TickInterval)
			}
			conf = next
			r.runOnce(ctx, conf)
		}
	}
}

func (r *Rebalancer) runOnce(ctx context.Context, conf config.Config) {
	snapshot, err := r.RunCycle(ctx, conf)
	if err != nil {
		// oracle-wide gap: nothing traded, nothing persisted, the next
		// tick is the retry
		r.logger.Warn("cycle aborted", zap.Error(err))
		return
	}

	r.logger.Info("cycle finished",
		zap.String("total_value", snapshot.TotalValue),
		zap.Int("pairs_reported", len(snapshot.Pairs)))
}

// reload re-reads the configuration file and returns the new snapshot, or
// keeps the previous one when the file is unreadable or invalid.
func (r *Rebalancer) reload(prev config.Config) config.Config {
	conf, err := config.Load(r.configPath)
	if err != nil {
		r.logger.Warn("config reload failed, keeping previous configuration", zap.Error(err))
		return prev
	}
	if conf.Platform != r.platform {
		r.logger.Warn("platform change requires restart, keeping previous platform",
			zap.String("configured", conf.Platform), zap.String("running", r.platform))
		conf.Platform = r.platform
	}
	if r.trader == nil {
		// no live venue was wired at startup, orders stay simulated
		conf.Simulate = true
	}
	return conf
}

// RunCycle executes a single rebalance cycle against one immutable config
// snapshot and returns the cycle's observable artifact.
func (r *Rebalancer) RunCycle(ctx context.Context, conf config.Config) (*domain.CycleSnapshot, error) {
	symbols := cycleSymbols(conf)

	// prices and balances are read-only and independent, fetch them in parallel
	var (
		prices   map[string]decimal.Decimal
		balances map[string]decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices, err = r.pricer.Prices(gctx, symbols)
		return errors.Wrap(err, "price oracle failed")
	})
	g.Go(func() error {
		var err error
		balances, err = r.wallet.FreeBalances(gctx)
		return errors.Wrap(err, "account oracle failed")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, errors.New("price oracle returned no prices")
	}

	totalValue := valuator.TotalValue(balances, prices, conf.StableAsset)

	snapshot := &domain.CycleSnapshot{
		Timestamp:   time.Now().UTC(),
		StableAsset: conf.StableAsset,
		Simulate:    conf.Simulate,
		TotalValue:  totalValue.StringFixed(2),
		Pairs:       make([]domain.PairReport, 0, len(conf.Pairs)),
	}
	if refPrice, ok := prices[referenceCoin+conf.StableAsset]; ok {
		snapshot.ReferencePrice = refPrice.String()
	}

	exec := r.executor(conf)
	in := engine.TickInput{Prices: prices, Balances: balances, TotalValue: totalValue}

	// pairs are evaluated sequentially in configured order; one pair's
	// failure never blocks the next
	for _, pair := range conf.Pairs {
		eng := engine.New(r.logger, pair, conf.StableAsset, exec, r.states)
		report, err := eng.Evaluate(ctx, in)
		if err != nil {
			if errors.Is(err, engine.ErrPriceUnavailable) {
				r.logger.Info("pair skipped this tick", zap.String("pair", pair.Name), zap.Error(err))
				continue
			}
			r.logger.Warn("pair execution failed", zap.String("pair", pair.Name), zap.Error(err))
		}
		if report.Name != "" {
			snapshot.Pairs = append(snapshot.Pairs, report)
		}
	}

	if r.snapshots != nil {
		if err := r.snapshots.Save(*snapshot); err != nil {
			r.logger.Warn("failed to persist cycle snapshot", zap.Error(err))
		}
	}

	return snapshot, nil
}

func (r *Rebalancer) executor(conf config.Config) engine.Executor {
	if conf.Simulate || r.trader == nil {
		return engine.NewSimulateExecutor(r.logger)
	}
	return engine.NewLiveExecutor(r.trader, r.wallet, r.logger)
}

// cycleSymbols computes the union of venue symbols one cycle needs: every
// pair coin against the stable asset plus the reference symbol.
func cycleSymbols(conf config.Config) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0, 2*len(conf.Pairs)+1)

	add := func(sym string) {
		if !seen[sym] {
			seen[sym] = true
			symbols = append(symbols, sym)
		}
	}

	add(referenceCoin + conf.StableAsset)
	for i := range conf.Pairs {
		add(conf.Pairs[i].SymbolA(conf.StableAsset))
		add(conf.Pairs[i].SymbolB(conf.StableAsset))
	}

	return symbols
}
