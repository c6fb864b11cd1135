package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "10:00", cfg.Attendance.LateAfter)
	assert.Equal(t, "17:00", cfg.Attendance.EarlyBefore)
	assert.Equal(t, []time.Weekday{time.Sunday}, cfg.Attendance.RestDays)
	assert.Equal(t, 12, cfg.Attendance.SickEntitlement)
	assert.Equal(t, 0, cfg.Attendance.PersonalEntitlement)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.PushEnabled())
}

func TestLoad_RestDaysAndTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ATTENDANCE_REST_DAYS", "saturday, Sunday")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cfg.Attendance.RestDays)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Timezone: "UTC"},
			Storage: StorageConfig{Driver: DriverMemory},
			JWT:     JWTConfig{Secret: "s", AccessExpiration: "1h"},
			Attendance: AttendanceConfig{
				LateAfter:   "10:00",
				EarlyBefore: "17:00",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: "JWT_SECRET_KEY"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: "STORAGE_DRIVER"},
		{name: "postgres without password", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: "DB_PASSWORD"},
		{name: "bad late clock", mutate: func(c *Config) { c.Attendance.LateAfter = "25:99" }, wantErr: "ATTENDANCE_LATE_AFTER"},
		{name: "bad timezone", mutate: func(c *Config) { c.App.Timezone = "Mars/Base" }, wantErr: "APP_TIMEZONE"},
		{name: "negative entitlement", mutate: func(c *Config) { c.Attendance.SickEntitlement = -1 }, wantErr: "entitlements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:45")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseClock("nine")
	assert.Error(t, err)
}
