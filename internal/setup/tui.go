package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/rotor/config"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the result to
// the given path.
func RunTUI(path string) error {
	var (
		platform    string
		stableAsset string
		simulate    bool
		intervalStr string
		listen      string
		confirm     bool
	)

	// defaults
	stableAsset = "USDT"
	intervalStr = "30s"
	listen = ":8080"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("ROTOR CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Multi-pair ratio rotation, configured in style.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PLATFORM"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Simulation", "simulate"),
				).
				Value(&platform),
			huh.NewConfirm().
				Title("Simulate (compute and report trades without submitting)?").
				Value(&simulate),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: GENERAL"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stable Asset").
				Description("Quote currency for every pair (e.g. USDT)").
				Value(&stableAsset).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("stable asset cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tick Interval").
				Description("Duration string (e.g. 30s, 1m, 5m)").
				Value(&intervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Dashboard Listen Address").
				Description("Empty disables the dashboard").
				Value(&listen),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: PAIRS"))
	var pairs []config.PairTmp
	for {
		pair, err := askPair()
		if err != nil {
			return err
		}
		pairs = append(pairs, pair)

		var more bool
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Add another pair?").
					Value(&more),
			),
		).Run()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	summary := fmt.Sprintf("platform: %s\nstable: %s\nsimulate: %v\ntick interval: %s\npairs: %d",
		platform, stableAsset, simulate, intervalStr, len(pairs))
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	interval, _ := time.ParseDuration(intervalStr)

	cfgTmp := config.ConfigTmp{
		Platform:     platform,
		StableAsset:  stableAsset,
		Simulate:     simulate,
		TickInterval: interval,
		Listen:       listen,
		Pairs:        pairs,
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	return nil
}

func askPair() (config.PairTmp, error) {
	var coinA, coinB, upper, lower, alloc string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Coin A").
				Description("First asset symbol (e.g. HBAR)").
				Value(&coinA).
				Validate(notEmpty),
			huh.NewInput().
				Title("Coin B").
				Description("Second asset symbol (e.g. DOGE)").
				Value(&coinB).
				Validate(notEmpty),
			huh.NewInput().
				Title("Upper Ratio").
				Description("Rotate A->B when priceA/priceB exceeds this (e.g. 1.05)").
				Value(&upper).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Lower Ratio").
				Description("Rotate B->A when priceA/priceB drops below this (e.g. 0.95)").
				Value(&lower).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Allocation").
				Description("Fraction of portfolio this pair may deploy, 0..1 (e.g. 0.30)").
				Value(&alloc).
				Validate(validateAllocation),
		),
	).Run()
	if err != nil {
		return config.PairTmp{}, err
	}

	return config.PairTmp{
		Name:          fmt.Sprintf("%s_%s", coinA, coinB),
		CoinA:         coinA,
		CoinB:         coinB,
		UpperRatio:    upper,
		LowerRatio:    lower,
		AllocationPct: alloc,
	}, nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validateDecimal(s string) error {
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("must be a valid number")
	}
	return nil
}

func validateAllocation(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.GreaterThan(decimal.Zero) || d.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("must be in (0, 1]")
	}
	return nil
}
