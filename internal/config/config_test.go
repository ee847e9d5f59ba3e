package config_test

import (
	"strings"
	"testing"
	"time"

	"shopfront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	cfg := config.FromViper(v)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "gorm", cfg.StoreDriver)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "sid", cfg.SessionCookie)
	assert.Equal(t, "cart", cfg.GuestCartCookie)
	assert.True(t, cfg.CartRequireLogin)
	assert.Equal(t, 30000.0, cfg.CheckoutShippingFee)
	assert.Equal(t, 20000.0, cfg.CheckoutDiscount)
	assert.Equal(t, "none", cfg.EventsBroker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestSessionSecretIsRandomWhenUnset(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	first := config.FromViper(v)
	second := config.FromViper(v)

	assert.True(t, first.SessionSecretGenerated)
	assert.Len(t, first.SessionSecret, 64)
	assert.NotEqual(t, first.SessionSecret, second.SessionSecret)
	assert.NotEqual(t, "change-me", first.SessionSecret)
	assert.NoError(t, first.Validate())
}

func TestValidateSessionSecretInProduction(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"unset", "", true},
		{"too short", "change-me", true},
		{"long enough", strings.Repeat("k", config.MinSessionSecretLen), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			config.SetDefaults(v)
			v.Set("APP_ENV", "production")
			v.Set("SESSION_SECRET", tt.secret)

			err := config.FromViper(v).Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestOverridesAndClamps(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("STORE_DRIVER", "MOCK")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("RATE_LIMIT_CAPACITY", 0)
	v.Set("RATE_LIMIT_REFILL_INTERVAL", "0s")
	v.Set("CART_REQUIRE_LOGIN", "false")
	cfg := config.FromViper(v)

	assert.Equal(t, "mock", cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
	assert.False(t, cfg.CartRequireLogin)
}

func TestNewRedisClientWithoutAddress(t *testing.T) {
	assert.Nil(t, config.NewRedisClient(&config.Config{}))
}
