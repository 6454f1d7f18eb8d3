package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse("test", nil)
	require.NoError(t, err)
	require.Equal(t, defaultServerPort, cfg.ServerPort)
	require.False(t, cfg.Verbose)
}

func TestParseOverridesFromFlags(t *testing.T) {
	cfg, err := Parse("test", []string{"-server_port=8080", "-v", "-validate"})
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.True(t, cfg.Verbose)
	require.True(t, cfg.Validate)
}

func TestParseRejectsOutOfRangePort(t *testing.T) {
	_, err := Parse("test", []string{"-server_port=70000"})
	require.Error(t, err)
}
