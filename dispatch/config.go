package dispatch

import (
	"strings"

	"github.com/rjwalters/spicier-go/gmres"
)

// Strategy selects how UseGMRES decides between direct LU and iterative GMRES.
type Strategy int

const (
	// StrategyAuto picks GMRES once the system size reaches GMRESThreshold.
	StrategyAuto Strategy = iota
	// StrategyDirectLU always solves with direct LU, regardless of size.
	StrategyDirectLU
	// StrategyIterativeGMRES always solves with GMRES, regardless of size.
	StrategyIterativeGMRES
)

// StrategyFromName parses a strategy name case-insensitively; ok is false
// for unrecognised names.
func StrategyFromName(name string) (strategy Strategy, ok bool) {
	switch strings.ToLower(name) {
	case "auto":
		return StrategyAuto, true
	case "lu", "direct", "directlu":
		return StrategyDirectLU, true
	case "gmres", "iterative":
		return StrategyIterativeGMRES, true
	default:
		return StrategyAuto, false
	}
}

// Default thresholds per the §4.5 contract.
const (
	DefaultCPUThreshold   = 1000   // below this, always use the CPU even if a GPU backend is configured
	DefaultGMRESThreshold = 10_000 // at or above this, Auto prefers GMRES over direct LU
)

// Config controls how a solve selects between backends and algorithms.
type Config struct {
	Backend        ComputeBackend
	Strategy       Strategy
	CPUThreshold   int
	GMRESThreshold int
	GMRESConfig    gmres.Config
}

// Option mutates a Config; used with New to apply functional-style overrides.
type Option func(*Config)

// DefaultConfig returns the CPU-only, Auto-strategy default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:        CPU(),
		Strategy:       StrategyAuto,
		CPUThreshold:   DefaultCPUThreshold,
		GMRESThreshold: DefaultGMRESThreshold,
		GMRESConfig:    gmres.DefaultConfig(),
	}
}

// New builds a Config from DefaultConfig with the given backend and options
// applied in order.
func New(backend ComputeBackend, opts ...Option) Config {
	cfg := DefaultConfig()
	cfg.Backend = backend
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithStrategy overrides the solver strategy.
func WithStrategy(strategy Strategy) Option {
	return func(c *Config) { c.Strategy = strategy }
}

// WithCPUThreshold overrides the CPU-always threshold.
func WithCPUThreshold(threshold int) Option {
	return func(c *Config) { c.CPUThreshold = threshold }
}

// WithGMRESThreshold overrides the Auto-strategy GMRES threshold.
func WithGMRESThreshold(threshold int) Option {
	return func(c *Config) { c.GMRESThreshold = threshold }
}

// WithGMRESConfig overrides the GMRES solve configuration.
func WithGMRESConfig(gc gmres.Config) Option {
	return func(c *Config) { c.GMRESConfig = gc }
}

// UseGPU reports whether a system of the given size should run on the
// configured GPU backend: below CPUThreshold the CPU is always used, even
// if a GPU backend is configured.
func (c Config) UseGPU(size int) bool {
	if size < c.CPUThreshold {
		return false
	}

	return c.Backend.Kind != BackendCPU
}

// UseGMRES reports whether a system of the given size should be solved
// iteratively rather than with direct LU.
func (c Config) UseGMRES(size int) bool {
	switch c.Strategy {
	case StrategyDirectLU:
		return false
	case StrategyIterativeGMRES:
		return true
	default:
		return size >= c.GMRESThreshold
	}
}

// Describe returns a human-readable description of the dispatch decision
// for a system of the given size, e.g. "GMRES with CUDA".
func (c Config) Describe(size int) string {
	backend := "CPU"
	if c.UseGPU(size) {
		backend = c.Backend.Name()
	}
	solver := "Direct LU"
	if c.UseGMRES(size) {
		solver = "GMRES"
	}

	return solver + " with " + backend
}
