package config

// Config holds solver and pool construction parameters shared across packages.
type Config struct {
	// RootTolerance is the absolute tolerance used by Brent's method on both
	// the function value and the bracket width.
	RootTolerance float64

	// RootMaxIterations caps the number of Brent iterations.
	RootMaxIterations int

	// DefaultPoolFactor is the initial pool factor used when a caller does
	// not supply one.
	DefaultPoolFactor float64

	// SolveRateLow and SolveRateHigh bracket the annual market rate searched
	// by valuation.SolveFlatRate when the caller passes a zero-width bracket.
	SolveRateLow  float64
	SolveRateHigh float64
}

// DefaultConfig provides the library defaults.
var DefaultConfig = Config{
	RootTolerance:     1e-8,
	RootMaxIterations: 100,
	DefaultPoolFactor: 1.0,
	SolveRateLow:      1e-6,
	SolveRateHigh:     1.0,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
