package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sslsetup/core/config"
)

type sampleConfig struct {
	Addr    string        `env:"SSLSETUP_TEST_ADDR" envDefault:":8070"`
	Timeout time.Duration `env:"SSLSETUP_TEST_TIMEOUT" envDefault:"5s"`
	Staging bool          `env:"SSLSETUP_TEST_STAGING"`
}

type requiredConfig struct {
	Value string `env:"SSLSETUP_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	config.Reset()
	t.Setenv("SSLSETUP_TEST_STAGING", "true")

	var cfg sampleConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":8070", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Staging)
}

func TestLoadCachesPerType(t *testing.T) {
	config.Reset()
	t.Setenv("SSLSETUP_TEST_ADDR", ":9000")

	var first sampleConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("SSLSETUP_TEST_ADDR", ":9999")

	var second sampleConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, ":9000", second.Addr)
}

func TestLoadErrors(t *testing.T) {
	config.Reset()

	var nilCfg *sampleConfig
	assert.ErrorIs(t, config.Load(nilCfg), config.ErrNilConfig)

	var req requiredConfig
	assert.ErrorIs(t, config.Load(&req), config.ErrParse)
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}
