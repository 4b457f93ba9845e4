package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.EndpointAddr)
	require.Equal(t, 72*time.Hour, cfg.ShareLinkValidity)
	require.Equal(t, int64(100000), cfg.ChangeHorizon)
	require.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PETKEEPER_ENDPOINT_ADDR", ":9090")
	t.Setenv("PETKEEPER_CHANGE_HORIZON", "42")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.EndpointAddr)
	require.Equal(t, int64(42), cfg.ChangeHorizon)
}
