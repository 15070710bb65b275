package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"go.uber.org/zap"

	"github.com/vadiminshakov/rotor/config"
	"github.com/vadiminshakov/rotor/internal/clients"
	"github.com/vadiminshakov/rotor/internal/services/pricer"
	"github.com/vadiminshakov/rotor/internal/services/trader"
	"github.com/vadiminshakov/rotor/internal/services/wallet"
)

// ServiceProvider is the factory for platform-specific oracle and venue
// implementations.
type ServiceProvider interface {
	Pricer() (pricer.Pricer, error)
	Wallet() (wallet.Wallet, error)
	Trader() (trader.Trader, error)
}

// NewServiceProvider dispatches on the client type. This is the single point
// of truth for platform-specific wiring.
func NewServiceProvider(client any, conf config.Config, logger *zap.Logger) (ServiceProvider, error) {
	switch c := client.(type) {
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *clients.SimulateClient:
		return &simulateProvider{client: c, conf: conf, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBinancePricer(p.client), nil
}
func (p *binanceProvider) Wallet() (wallet.Wallet, error) {
	return wallet.NewBinanceWallet(p.client), nil
}
func (p *binanceProvider) Trader() (trader.Trader, error) {
	return trader.NewBinanceTrader(p.client), nil
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBybitPricer(p.client), nil
}
func (p *bybitProvider) Wallet() (wallet.Wallet, error) {
	return wallet.NewBybitWallet(p.client), nil
}
func (p *bybitProvider) Trader() (trader.Trader, error) {
	return trader.NewBybitTrader(p.client), nil
}

type simulateProvider struct {
	client *clients.SimulateClient
	conf   config.Config
	logger *zap.Logger
}

func (p *simulateProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewSimulatePricer(p.client.GetBinanceClient()), nil
}
func (p *simulateProvider) Wallet() (wallet.Wallet, error) {
	return wallet.NewSimulateWallet(p.conf.StableAsset, p.conf.SimulateDeposit), nil
}
func (p *simulateProvider) Trader() (trader.Trader, error) {
	// the simulate platform never reaches the venue; rotations go through
	// the simulate executor instead
	return nil, fmt.Errorf("simulate platform has no order venue")
}
