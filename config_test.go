package campus_test

import (
	"testing"

	"github.com/fwojciec/campus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	c := campus.DefaultConfig()
	assert.NoError(t, c.Validate())
	assert.Equal(t, campus.DefaultBaseURL, c.BaseURL)
	assert.Equal(t, campus.StoreFile, c.Store)
	assert.Equal(t, campus.ModeStandard, c.ChatMode())
	assert.Equal(t, zerolog.WarnLevel, c.Level())
	assert.Equal(t, campus.DefaultPageSize, c.PageSize)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*campus.Config)
	}{
		{"relative base url", func(c *campus.Config) { c.BaseURL = "/api" }},
		{"non-http base url", func(c *campus.Config) { c.BaseURL = "ftp://example.com" }},
		{"unknown store", func(c *campus.Config) { c.Store = "vault" }},
		{"bad log level", func(c *campus.Config) { c.LogLevel = "loud" }},
		{"unknown mode", func(c *campus.Config) { c.Mode = "creative" }},
		{"zero page size", func(c *campus.Config) { c.PageSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := campus.DefaultConfig()
			tt.modify(&c)
			assert.ErrorIs(t, c.Validate(), campus.ErrValidation)
		})
	}
}

func TestConfigAccessors(t *testing.T) {
	t.Parallel()

	c := campus.DefaultConfig()
	c.Mode = "thinking"
	c.LogLevel = "debug"
	assert.Equal(t, campus.ModeDeepThinking, c.ChatMode())
	assert.Equal(t, zerolog.DebugLevel, c.Level())

	c.LogLevel = "nonsense"
	assert.Equal(t, zerolog.WarnLevel, c.Level())
}
