package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/config"
)

func baseValues() map[string]interface{} {
	return map[string]interface{}{
		"booking.qr_secret": "qr-secret",
		"jwt.secret":        "jwt-secret",
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	cfg, err := FromConfig(pkgconfig.FromMap("booking-test", baseValues()))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, StorageMemory, cfg.Storage.RegistryDriver)
	assert.Equal(t, 5*time.Second, cfg.Payment.BankTimeout)
	assert.Equal(t, time.Minute, cfg.Payment.SweepInterval)
	assert.Equal(t, OracleNotFound, cfg.Payment.Oracle)
	assert.Equal(t, "Asia/Kolkata", cfg.Booking.Timezone)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, ":8080", cfg.Server.HTTP.Address())
	assert.Equal(t, "booking-events", cfg.Notification.Channel)
	assert.False(t, cfg.Email.Enabled())
}

func TestFromConfig_Overrides(t *testing.T) {
	values := baseValues()
	values["payment.bank_timeout"] = "2s"
	values["storage.driver"] = StoragePostgres
	values["server.http.port"] = 8181
	values["database.name"] = "bookings"

	cfg, err := FromConfig(pkgconfig.FromMap("booking-test", values))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Payment.BankTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 8181, cfg.Server.HTTP.Port)
	assert.Contains(t, cfg.Database.DSN(), "dbname=bookings")
}

func TestFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing qr secret", func(v map[string]interface{}) { delete(v, "booking.qr_secret") }},
		{"missing jwt secret", func(v map[string]interface{}) { delete(v, "jwt.secret") }},
		{"unknown storage", func(v map[string]interface{}) { v["storage.driver"] = "mysql" }},
		{"unknown registry", func(v map[string]interface{}) { v["storage.registry_driver"] = "etcd" }},
		{"unknown oracle", func(v map[string]interface{}) { v["payment.oracle"] = "upi" }},
		{"ledger in production", func(v map[string]interface{}) {
			v["payment.oracle"] = OracleLedger
			v["service.environment"] = "production"
		}},
		{"bad timezone", func(v map[string]interface{}) { v["booking.timezone"] = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := baseValues()
			tt.mutate(values)
			_, err := FromConfig(pkgconfig.FromMap("booking-test", values))
			assert.Error(t, err)
		})
	}
}

func TestTestEndpointsEnabled(t *testing.T) {
	c := &Config{Service: ServiceConfig{EnableTestEndpoints: true, Environment: "development"}}
	assert.True(t, c.TestEndpointsEnabled())

	c.Service.Environment = "production"
	assert.False(t, c.TestEndpointsEnabled())
}
