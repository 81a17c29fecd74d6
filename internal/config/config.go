package config

import (
	"fmt"
	"os"
	"time"

	"TradeFalcon/internal/model"

	"gopkg.in/yaml.v3"
)

// ClassifierConfig holds the classification thresholds.
type ClassifierConfig struct {
	PennyPriceCeiling   float64 `yaml:"penny_price_ceiling"`
	HighVolatilityRatio float64 `yaml:"high_volatility_ratio"`
	LargeCapFloor       float64 `yaml:"large_cap_floor"`
}

// RouteConfig maps one classification to a strategy with a confidence score.
type RouteConfig struct {
	Strategy   model.StrategyID `yaml:"strategy"`
	Confidence float64          `yaml:"confidence"`
}

// ValidatorConfig holds the entry validation rules.
type ValidatorConfig struct {
	MinStopBuffer float64              `yaml:"min_stop_buffer"` // fraction, e.g. 0.05
	MinConfidence model.ConfidenceTier `yaml:"min_confidence"`
	MaxAgeHours   int                  `yaml:"max_age_hours"`
}

// MaxAge returns the recommendation freshness limit as a duration.
func (v ValidatorConfig) MaxAge() time.Duration {
	return time.Duration(v.MaxAgeHours) * time.Hour
}

// RSIConfig holds the RSI mean-reversion engine parameters.
type RSIConfig struct {
	Period       int     `yaml:"period"`
	Oversold     float64 `yaml:"oversold"`
	Overbought   float64 `yaml:"overbought"`
	ProfitTarget float64 `yaml:"profit_target"`
	MaxHoldBars  int     `yaml:"max_hold_bars"`
}

// MomentumConfig holds the momentum breakout engine parameters.
type MomentumConfig struct {
	BreakoutPeriod   int     `yaml:"breakout_period"`
	VolumeMultiplier float64 `yaml:"volume_multiplier"`
	TrailingStopPct  float64 `yaml:"trailing_stop_pct"`
	ProfitTarget     float64 `yaml:"profit_target"`
	MaxHoldBars      int     `yaml:"max_hold_bars"`
}

// BandsConfig holds the band mean-reversion engine parameters.
type BandsConfig struct {
	Period       int     `yaml:"period"`
	StdDevs      float64 `yaml:"std_devs"`
	ProfitTarget float64 `yaml:"profit_target"`
	MaxHoldBars  int     `yaml:"max_hold_bars"`
}

// TradingConfig holds portfolio-level limits.
type TradingConfig struct {
	InitialBalance  float64 `yaml:"initial_balance"`
	RiskPerTrade    float64 `yaml:"risk_per_trade"`    // fraction of cash risked to the stop
	MaxPositionSize float64 `yaml:"max_position_size"` // fraction of cash per position
	MaxPositions    int     `yaml:"max_positions"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Screener struct {
		FilePath string `yaml:"file_path"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"screener"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		ScanCron    string `yaml:"scan_cron"`
		MonitorCron string `yaml:"monitor_cron"`
	} `yaml:"schedule"`
	Trading    TradingConfig                        `yaml:"trading"`
	Classifier ClassifierConfig                     `yaml:"classifier"`
	Routes     map[model.Classification]RouteConfig `yaml:"routes"`
	Validator  ValidatorConfig                      `yaml:"validator"`
	RSI        RSIConfig                            `yaml:"rsi"`
	Momentum   MomentumConfig                       `yaml:"momentum"`
	Bands      BandsConfig                          `yaml:"bands"`
	Proxy      string                               `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and fills in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SCREENER_FILE"); v != "" {
		cfg.Screener.FilePath = v
	}
	if v := os.Getenv("SCREENER_BASE_URL"); v != "" {
		cfg.Screener.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("INITIAL_BALANCE"); v != "" {
		var balance float64
		if _, err := fmt.Sscanf(v, "%f", &balance); err == nil {
			cfg.Trading.InitialBalance = balance
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("CRON_MONITOR"); v != "" {
		cfg.Schedule.MonitorCron = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 35 9 * * 1-5" // shortly after market open
	}
	if c.Schedule.MonitorCron == "" {
		c.Schedule.MonitorCron = "0 * * * * *" // every minute
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/paper_trading.db"
	}
	if c.Trading.InitialBalance == 0 {
		c.Trading.InitialBalance = 10000
	}
	if c.Trading.RiskPerTrade == 0 {
		c.Trading.RiskPerTrade = 0.02
	}
	if c.Trading.MaxPositionSize == 0 {
		c.Trading.MaxPositionSize = 0.10
	}
	if c.Trading.MaxPositions == 0 {
		c.Trading.MaxPositions = 10
	}
	if c.Classifier.PennyPriceCeiling == 0 {
		c.Classifier.PennyPriceCeiling = 5.0
	}
	if c.Classifier.HighVolatilityRatio == 0 {
		c.Classifier.HighVolatilityRatio = 0.60
	}
	if c.Classifier.LargeCapFloor == 0 {
		c.Classifier.LargeCapFloor = 10e9
	}
	if len(c.Routes) == 0 {
		c.Routes = map[model.Classification]RouteConfig{
			model.ClassPenny:          {Strategy: model.StrategyMomentumBreakout, Confidence: 0.90},
			model.ClassETF:            {Strategy: model.StrategyRSIReversion, Confidence: 0.85},
			model.ClassHighVolatility: {Strategy: model.StrategyMomentumBreakout, Confidence: 0.80},
			model.ClassLargeCapStable: {Strategy: model.StrategyRSIReversion, Confidence: 0.75},
			model.ClassOther:          {Strategy: model.StrategyBandReversion, Confidence: 0.60},
		}
	}
	if c.Validator.MinStopBuffer == 0 {
		c.Validator.MinStopBuffer = 0.05
	}
	if c.Validator.MinConfidence == "" {
		c.Validator.MinConfidence = model.TierMedium
	}
	if c.Validator.MaxAgeHours == 0 {
		c.Validator.MaxAgeHours = 24
	}
	if c.RSI.Period == 0 {
		c.RSI.Period = 14
	}
	if c.RSI.Oversold == 0 {
		c.RSI.Oversold = 45
	}
	if c.RSI.Overbought == 0 {
		c.RSI.Overbought = 55
	}
	if c.RSI.ProfitTarget == 0 {
		c.RSI.ProfitTarget = 0.025
	}
	if c.RSI.MaxHoldBars == 0 {
		c.RSI.MaxHoldBars = 12
	}
	if c.Momentum.BreakoutPeriod == 0 {
		c.Momentum.BreakoutPeriod = 20
	}
	if c.Momentum.VolumeMultiplier == 0 {
		c.Momentum.VolumeMultiplier = 1.5
	}
	if c.Momentum.TrailingStopPct == 0 {
		c.Momentum.TrailingStopPct = 0.10
	}
	if c.Momentum.ProfitTarget == 0 {
		c.Momentum.ProfitTarget = 0.08
	}
	if c.Momentum.MaxHoldBars == 0 {
		c.Momentum.MaxHoldBars = 20
	}
	if c.Bands.Period == 0 {
		c.Bands.Period = 20
	}
	if c.Bands.StdDevs == 0 {
		c.Bands.StdDevs = 2.0
	}
	if c.Bands.ProfitTarget == 0 {
		c.Bands.ProfitTarget = 0.04
	}
	if c.Bands.MaxHoldBars == 0 {
		c.Bands.MaxHoldBars = 15
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Trading.InitialBalance <= 0 {
		return fmt.Errorf("trading.initial_balance must be positive")
	}
	if c.Trading.RiskPerTrade <= 0 || c.Trading.RiskPerTrade > 1 {
		return fmt.Errorf("trading.risk_per_trade must be in (0,1]")
	}
	if c.Trading.MaxPositionSize <= 0 || c.Trading.MaxPositionSize > 1 {
		return fmt.Errorf("trading.max_position_size must be in (0,1]")
	}
	if c.Validator.MinStopBuffer < 0 || c.Validator.MinStopBuffer >= 1 {
		return fmt.Errorf("validator.min_stop_buffer must be in [0,1)")
	}
	if c.Validator.MinConfidence.Rank() == 0 {
		return fmt.Errorf("validator.min_confidence must be LOW, MEDIUM or HIGH")
	}
	if c.RSI.Oversold >= c.RSI.Overbought {
		return fmt.Errorf("rsi.oversold must be below rsi.overbought")
	}
	required := []model.Classification{
		model.ClassPenny, model.ClassETF, model.ClassHighVolatility,
		model.ClassLargeCapStable, model.ClassOther,
	}
	for _, cls := range required {
		route, ok := c.Routes[cls]
		if !ok {
			return fmt.Errorf("routes: missing entry for classification %q", cls)
		}
		if route.Confidence < 0 || route.Confidence > 1 {
			return fmt.Errorf("routes[%s].confidence must be in [0,1]", cls)
		}
		switch route.Strategy {
		case model.StrategyRSIReversion, model.StrategyMomentumBreakout, model.StrategyBandReversion:
		default:
			return fmt.Errorf("routes[%s]: unknown strategy %q", cls, route.Strategy)
		}
	}
	return nil
}
