package proximity

import (
	"strings"
	"testing"

	"github.com/akmonengine/proximity/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero prediction", func(c *Config) { c.Prediction = 0 }, true},
		{"negative prediction", func(c *Config) { c.Prediction = -0.1 }, false},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }, false},
		{"no worker", func(c *Config) { c.Workers = 0 }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)

			err := config.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides the defaults", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("prediction: 0.5\nworkers: 4\n"))
		require.NoError(t, err)

		assert.Equal(t, 0.5, config.Prediction)
		assert.Equal(t, 4, config.Workers)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, 0, config.MaxIterations)
	})

	t.Run("empty document", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("predicton: 0.5\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("workers: 0\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("prediction: [1, 2\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestNewNarrowPhaseInvalidConfigPanics(t *testing.T) {
	config := DefaultConfig()
	config.Prediction = -1

	assert.Panics(t, func() {
		NewNarrowPhase[mgl64.Vec3, string](nil, config)
	})
}

func TestNewNarrowPhaseDefaultDispatcher(t *testing.T) {
	config := DefaultConfig()
	config.MaxIterations = 12

	np := NewNarrowPhase[mgl64.Vec3, string](nil, config)
	dispatcher, ok := np.dispatcher.(*DefaultDispatcher[mgl64.Vec3])
	require.True(t, ok)
	assert.Equal(t, gjk.Limits{MaxIterations: 12}, dispatcher.limits)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	o := buildOptions([]Option{WithLogger(zap.New(core))})
	o.logger.Debug("hello", pairField(Pair{First: 1, Second: 2}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "(1, 2)", entries[0].ContextMap()["pair"])

	// a nil logger keeps the default
	o = buildOptions([]Option{WithLogger(nil)})
	assert.NotNil(t, o.logger)
}

func TestHandleProximityLogsRedundantStart(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	np := NewNarrowPhase[mgl64.Vec3, string](nil, DefaultConfig(), WithLogger(zap.New(core)))

	objects := NewObjectSet[mgl64.Vec3, string]()
	_, k1 := objects.Add(newBall(mgl64.Vec3{0, 0, 0}, "a"))
	_, k2 := objects.Add(newBall(mgl64.Vec3{5, 0, 0}, "b"))

	cs, ps := NewContactSignal[string](), NewProximitySignal[string]()
	np.HandleProximity(cs, ps, objects, k1, k2, true)
	np.HandleProximity(cs, ps, objects, k1, k2, true)

	assert.Equal(t, 1, logs.FilterMessage("proximity started on a tracked pair").Len())
	assert.Equal(t, 1, ps.Len())
}
