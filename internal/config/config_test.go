package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stripe-relay/internal/config"
)

func validEnv() map[string]string {
	return map[string]string{
		"STRIPE_SECRET_KEY":     "sk_test_123",
		"STRIPE_WEBHOOK_SECRET": "whsec_123",
		"ORDERS_API_KEY":        "orders-key",
		"ORDERS_BASE_URL":       "",
		"ORDERS_TIMEOUT":        "",
		"PORT":                  "",
		"APP_ENV":               "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(validEnv())
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 10*time.Second, cfg.OrdersTimeout)
	require.NotEmpty(t, cfg.OrdersBaseURL)
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "ORDERS_API_KEY"} {
		env := validEnv()
		env[key] = ""
		_, err := config.LoadForTests(env)
		require.Error(t, err, key)
		require.Contains(t, err.Error(), key)
	}
}

func TestLoadOverrides(t *testing.T) {
	env := validEnv()
	env["PORT"] = "9090"
	env["ORDERS_BASE_URL"] = "http://localhost:4000/orders"
	env["ORDERS_TIMEOUT"] = "2s"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "http://localhost:4000/orders", cfg.OrdersBaseURL)
	require.Equal(t, 2*time.Second, cfg.OrdersTimeout)
}

func TestHTTPAddrKeepsLeadingColon(t *testing.T) {
	env := validEnv()
	env["PORT"] = ":7070"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTPAddr())
}
