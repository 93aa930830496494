package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"zeitgeber/hal"
	"zeitgeber/zgos/kernel"

	"gopkg.in/yaml.v3"
)

// InitFailurePolicy decides what a failed peripheral init does.
type InitFailurePolicy string

const (
	// InitContinue logs the failure and boots without the peripheral.
	InitContinue InitFailurePolicy = "continue"
	// InitCritical routes the failure to the critical-error handler.
	InitCritical InitFailurePolicy = "critical"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the firmware configuration. Start from DefaultConfig; a YAML
// file only overrides the keys it names.
type Config struct {
	// Hz is the tick rate of the simulated board. Hardware ignores it.
	Hz uint32 `yaml:"hz"`
	// Watchdog is the supervision timeout; zero leaves it off.
	Watchdog time.Duration `yaml:"watchdog"`
	// SwitchButton and DisplayButton are 1-based; 0 unbinds the role.
	SwitchButton  int `yaml:"switch_button"`
	DisplayButton int `yaml:"display_button"`
	// InitFailure is "continue" or "critical".
	InitFailure InitFailurePolicy `yaml:"init_failure"`
	// KDiag registers the diagnostics app.
	KDiag bool `yaml:"kdiag"`
	// BootHold keeps an unexpected-reset report on screen.
	BootHold time.Duration `yaml:"boot_hold"`
}

// DefaultConfig is the shipping configuration.
func DefaultConfig() Config {
	return Config{
		SwitchButton:  1,
		DisplayButton: 2,
		InitFailure:   InitContinue,
		KDiag:         true,
		BootHold:      2 * time.Second,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MaxHz is the fastest tick rate a nanosecond tick period can express.
const MaxHz = uint32(time.Second)

// Validate checks ranges and fills defaults for zero fields.
func (c *Config) Validate() error {
	if c.Hz > MaxHz {
		return fmt.Errorf("%w: hz %d above %d", ErrInvalidConfig, c.Hz, MaxHz)
	}
	if c.InitFailure == "" {
		c.InitFailure = InitContinue
	}
	switch c.InitFailure {
	case InitContinue, InitCritical:
	default:
		return fmt.Errorf("%w: init_failure %q", ErrInvalidConfig, c.InitFailure)
	}
	for _, b := range []struct {
		name string
		v    int
	}{{"switch_button", c.SwitchButton}, {"display_button", c.DisplayButton}} {
		if b.v < 0 || b.v > hal.NumButtons {
			return fmt.Errorf("%w: %s %d out of range", ErrInvalidConfig, b.name, b.v)
		}
	}
	if c.SwitchButton != 0 && c.SwitchButton == c.DisplayButton {
		return fmt.Errorf("%w: switch_button and display_button are both %d", ErrInvalidConfig, c.SwitchButton)
	}
	if c.Watchdog < 0 || c.BootHold < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}

func binding(n int) kernel.Binding {
	if n <= 0 {
		return 0
	}
	return kernel.Bind(hal.Button(n - 1))
}

// holdTicks converts BootHold to ticks at hz.
func (c Config) holdTicks(hz uint32) uint64 {
	return uint64(c.BootHold) * uint64(hz) / uint64(time.Second)
}
