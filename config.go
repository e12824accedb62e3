package proximity

import (
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DEFAULT_WORKERS = 1

// DEFAULT_PREDICTION is the distance under which separated shapes still report a contact.
const DEFAULT_PREDICTION = 0.01

var ErrInvalidConfig = errors.New("invalid config")

// Config tunes the narrow phase.
type Config struct {
	// Prediction is the margin within which separated pairs report contacts, >= 0
	Prediction float64 `json:"prediction" yaml:"prediction"`
	// MaxIterations caps the GJK loop, 0 uses gjk.DefaultMaxIterations
	MaxIterations int `json:"maxIterations" yaml:"maxIterations"`
	// Workers is the number of goroutines updating the detectors
	Workers  int    `json:"workers" yaml:"workers"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

func DefaultConfig() Config {
	return Config{
		Prediction: DEFAULT_PREDICTION,
		Workers:    DEFAULT_WORKERS,
		LogLevel:   "info",
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.Prediction) || c.Prediction < 0 {
		return fmt.Errorf("%w: prediction must be positive or null, got %v", ErrInvalidConfig, c.Prediction)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: maxIterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig decodes a YAML document on top of DefaultConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
