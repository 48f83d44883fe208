package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SeedSamples inserts a handful of sample materials when the materials
	// table is empty right after the schema is migrated.
	SeedSamples bool `json:"seed_samples" yaml:"seed_samples"`

	// HistoryLimit is the number of audit entries returned when a caller
	// asks for history without an explicit limit.
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultHistoryLimit is used when Config.HistoryLimit is zero.
const DefaultHistoryLimit = 100

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("stockpile: backend must not be empty")
	ErrBackendUnknown      = errors.New("stockpile: unknown backend")
	ErrDataDirEmpty        = errors.New("stockpile: data directory must not be empty")
	ErrHistoryLimitInvalid = errors.New("stockpile: history limit must not be negative")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.HistoryLimit < 0 {
		return ErrHistoryLimitInvalid
	}
	return nil
}

// EffectiveHistoryLimit returns HistoryLimit, or DefaultHistoryLimit when unset.
func (c Config) EffectiveHistoryLimit() int {
	if c.HistoryLimit > 0 {
		return c.HistoryLimit
	}
	return DefaultHistoryLimit
}
