// Package settings loads driver settings from an optional YAML file, a .env
// file and MBS_* environment variables, in increasing order of precedence.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/meenmo/mbs/calendar"
	"github.com/meenmo/mbs/config"
)

// envPrefix is the environment variable prefix used by all driver settings.
const envPrefix = "MBS"

// Settings are the knobs of the command-line driver.
type Settings struct {
	Log    LogSettings    `mapstructure:"log"`
	Solver SolverSettings `mapstructure:"solver"`
	Pool   PoolSettings   `mapstructure:"pool"`
	// Calendar names the holiday calendar used to date payments.
	Calendar string `mapstructure:"calendar"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type SolverSettings struct {
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	RateLow       float64 `mapstructure:"rate_low"`
	RateHigh      float64 `mapstructure:"rate_high"`
}

type PoolSettings struct {
	InitialFactor float64 `mapstructure:"initial_factor"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := config.DefaultConfig
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("solver.tolerance", d.RootTolerance)
	v.SetDefault("solver.max_iterations", d.RootMaxIterations)
	v.SetDefault("solver.rate_low", d.SolveRateLow)
	v.SetDefault("solver.rate_high", d.SolveRateHigh)
	v.SetDefault("pool.initial_factor", d.DefaultPoolFactor)
	v.SetDefault("calendar", "USD")
	return v
}

// Load reads configPath (skipped when empty) and envPath (skipped when empty
// or missing), then applies MBS_* overrides.
func Load(configPath, envPath string) (*Settings, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("settings: load %q: %w", envPath, err)
		}
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("settings: read %q: %w", configPath, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("settings: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the library would refuse later anyway.
func (s *Settings) Validate() error {
	if !(s.Solver.Tolerance > 0) {
		return fmt.Errorf("settings: solver.tolerance must be positive, got %g", s.Solver.Tolerance)
	}
	if s.Solver.MaxIterations <= 0 {
		return fmt.Errorf("settings: solver.max_iterations must be positive, got %d", s.Solver.MaxIterations)
	}
	if !(s.Solver.RateLow < s.Solver.RateHigh) {
		return fmt.Errorf("settings: solver.rate_low (%g) must be below solver.rate_high (%g)", s.Solver.RateLow, s.Solver.RateHigh)
	}
	if !(s.Pool.InitialFactor > 0 && s.Pool.InitialFactor <= 1) {
		return fmt.Errorf("settings: pool.initial_factor must be in (0, 1], got %g", s.Pool.InitialFactor)
	}
	if _, err := calendar.Parse(s.Calendar); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// Apply pushes solver and pool settings into the library configuration.
func (s *Settings) Apply() {
	c := config.GetConfig()
	c.RootTolerance = s.Solver.Tolerance
	c.RootMaxIterations = s.Solver.MaxIterations
	c.SolveRateLow = s.Solver.RateLow
	c.SolveRateHigh = s.Solver.RateHigh
	c.DefaultPoolFactor = s.Pool.InitialFactor
	config.SetConfig(c)
}
