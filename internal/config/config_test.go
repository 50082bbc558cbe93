package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	var c Config
	c.WordPress.BaseURL = "https://example.com/wp-json/wp/v2"
	c.WordPress.Username = "editor"
	c.WordPress.AppPassword = "xxxx yyyy zzzz"
	c.Matcher.Threshold = 0.70
	return &c
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateNamesEveryMissingSetting(t *testing.T) {
	var c Config
	c.Matcher.Threshold = 0.70

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORDPRESS_URL")
	assert.Contains(t, err.Error(), "WORDPRESS_USERNAME")
	assert.Contains(t, err.Error(), "WORDPRESS_PASSWORD")
}

func TestValidateThresholdRange(t *testing.T) {
	c := validConfig()
	c.Matcher.Threshold = 1.5
	assert.Error(t, c.Validate())

	c.Matcher.Threshold = 0
	assert.Error(t, c.Validate())
}
