package fontcache

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Store vendors recognised by the façade.
const (
	VendorMemory = "memory"
	VendorFS     = "fs"
)

// Duration wraps time.Duration so YAML configs can use human-readable
// values such as "5s" or "250ms".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err == nil {
		parsed, perr := time.ParseDuration(raw)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is a serialisable representation of the runtime configuration.  It
// can be populated from YAML, JSON or environment-driven tooling; the
// zero-value is useful and unset fields inherit their package defaults.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Watchdog WatchdogConfig `json:"watchdog" yaml:"watchdog"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
}

// StoreConfig selects and parameterises the persistent store vendor.
type StoreConfig struct {
	Vendor string `json:"vendor" yaml:"vendor"`
	// BaseURL roots the fs vendor; ignored by the memory vendor.
	BaseURL string `json:"baseURL" yaml:"baseURL"`
	// Version is the structural version record stores are opened at; a bump
	// triggers the configured migration on next open.
	Version int `json:"version" yaml:"version"`
}

// WatchdogConfig tunes the per-sequencer pending watchdog.
type WatchdogConfig struct {
	Interval        Duration `json:"interval" yaml:"interval"`
	GiveUpThreshold int      `json:"giveUpThreshold" yaml:"giveUpThreshold"`
}

// FetchConfig tunes network retrieval of font binaries.
type FetchConfig struct {
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Vendor:  VendorMemory,
			Version: 1,
		},
		Watchdog: WatchdogConfig{
			Interval:        Duration(10 * time.Second),
			GiveUpThreshold: 10,
		},
		Fetch: FetchConfig{
			Timeout: Duration(30 * time.Second),
		},
	}
}

// ParseYAML decodes a Config from YAML, fills unset fields with the package
// defaults and validates the result.
func ParseYAML(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// normalize fills unset fields with defaults.
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Store.Vendor == "" {
		c.Store.Vendor = defaults.Store.Vendor
	}
	if c.Store.Version == 0 {
		c.Store.Version = defaults.Store.Version
	}
	if c.Watchdog.Interval == 0 {
		c.Watchdog.Interval = defaults.Watchdog.Interval
	}
	if c.Watchdog.GiveUpThreshold == 0 {
		c.Watchdog.GiveUpThreshold = defaults.Watchdog.GiveUpThreshold
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = defaults.Fetch.Timeout
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Store.Vendor {
	case VendorMemory:
	case VendorFS:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported store vendor: %s", c.Store.Vendor)
	}
	if c.Store.Version <= 0 {
		return fmt.Errorf("store.version must be > 0")
	}
	if c.Watchdog.GiveUpThreshold < 0 {
		return fmt.Errorf("watchdog.giveUpThreshold must be >= 0")
	}
	return nil
}
