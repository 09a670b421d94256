package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTIFY_TIMEZONE", "America/New_York")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12, cfg.ReminderHour)
	assert.Equal(t, 10, cfg.ReminderWindowMinutes)
	assert.Equal(t, "postgres", cfg.Dedup.Backend)
	assert.Equal(t, 5, cfg.SMS.DispatchConcurrency)
	assert.False(t, cfg.SMS.Configured())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad timezone", key: "NOTIFY_TIMEZONE", val: "Mars/Olympus"},
		{name: "bad hour", key: "REMINDER_HOUR", val: "24"},
		{name: "bad provider", key: "SMS_PROVIDER", val: "pigeon"},
		{name: "bad dedup backend", key: "DEDUP_BACKEND", val: "memcached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSMSConfig_Configured(t *testing.T) {
	c := SMSConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+15550000000"}
	assert.True(t, c.Configured())

	c.FromNumber = ""
	assert.False(t, c.Configured())
}
