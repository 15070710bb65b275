// Package config loads and validates the bot configuration from a YAML file.
//
// The file is re-read at the top of every rebalance cycle so edits (from the
// dashboard or by hand) take effect without a restart. Load returns an
// immutable value that callers pass around explicitly; nothing in the bot
// reads shared mutable configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/rotor/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	defaultStableAsset  = "USDT"
	defaultTickInterval = 30 * time.Second
)

// Config is a single immutable configuration snapshot.
type Config struct {
	Platform        string
	StableAsset     string
	Simulate        bool
	Testnet         bool
	TickInterval    time.Duration
	Listen          string
	TLSDomain       string
	SimulateDeposit decimal.Decimal
	Pairs           []domain.RatioPair
}

type ConfigTmp struct {
	Platform        string        `yaml:"platform"`
	StableAsset     string        `yaml:"stable_asset"`
	Simulate        bool          `yaml:"simulate"`
	Testnet         bool          `yaml:"testnet"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	Listen          string        `yaml:"listen,omitempty"`
	TLSDomain       string        `yaml:"tls_domain,omitempty"`
	SimulateDeposit string        `yaml:"simulate_deposit,omitempty"`
	Pairs           []PairTmp     `yaml:"pairs"`
}

type PairTmp struct {
	Name          string `yaml:"name"`
	CoinA         string `yaml:"coin_a"`
	CoinB         string `yaml:"coin_b"`
	UpperRatio    string `yaml:"upper_ratio"`
	LowerRatio    string `yaml:"lower_ratio"`
	AllocationPct string `yaml:"allocation_pct"`
}

// Load reads and validates the configuration at path.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse yaml config")
	}

	conf := Config{
		Platform:     tmp.Platform,
		StableAsset:  tmp.StableAsset,
		Simulate:     tmp.Simulate,
		Testnet:      tmp.Testnet,
		TickInterval: tmp.TickInterval,
		Listen:       tmp.Listen,
		TLSDomain:    tmp.TLSDomain,
	}

	if conf.Platform == "" {
		conf.Platform = "binance"
	}
	if conf.StableAsset == "" {
		conf.StableAsset = defaultStableAsset
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = defaultTickInterval
	}

	if conf.Platform == "simulate" {
		// platform simulate never submits orders regardless of the flag
		conf.Simulate = true
	}

	conf.SimulateDeposit = decimal.NewFromInt(10000)
	if tmp.SimulateDeposit != "" {
		conf.SimulateDeposit, err = decimal.NewFromString(tmp.SimulateDeposit)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'simulate_deposit' param in yaml config: %w", err)
		}
	}

	if len(tmp.Pairs) == 0 {
		return Config{}, errors.New("at least one pair must be configured")
	}

	seen := make(map[string]bool, len(tmp.Pairs))
	for _, p := range tmp.Pairs {
		pair, err := pairFromTmp(p)
		if err != nil {
			return Config{}, err
		}
		if seen[pair.Name] {
			return Config{}, fmt.Errorf("duplicate pair name %q in yaml config", pair.Name)
		}
		seen[pair.Name] = true
		conf.Pairs = append(conf.Pairs, pair)
	}

	return conf, nil
}

func pairFromTmp(p PairTmp) (domain.RatioPair, error) {
	upper, err := decimal.NewFromString(p.UpperRatio)
	if err != nil {
		return domain.RatioPair{}, fmt.Errorf("pair %s: incorrect 'upper_ratio' param: %w", p.Name, err)
	}
	lower, err := decimal.NewFromString(p.LowerRatio)
	if err != nil {
		return domain.RatioPair{}, fmt.Errorf("pair %s: incorrect 'lower_ratio' param: %w", p.Name, err)
	}
	alloc, err := decimal.NewFromString(p.AllocationPct)
	if err != nil {
		return domain.RatioPair{}, fmt.Errorf("pair %s: incorrect 'allocation_pct' param: %w", p.Name, err)
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%s_%s", p.CoinA, p.CoinB)
	}

	pair := domain.RatioPair{
		Name:          name,
		CoinA:         p.CoinA,
		CoinB:         p.CoinB,
		UpperRatio:    upper,
		LowerRatio:    lower,
		AllocationPct: alloc,
	}
	if err := pair.Validate(); err != nil {
		return domain.RatioPair{}, err
	}
	return pair, nil
}
