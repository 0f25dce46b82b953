package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/planner")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"ENV", "ADVISOR_API_KEY", "ADVISOR_BASE_URL", "ADVISOR_MODEL", "ADVISOR_TIMEOUT", "PLAN_DAYS_AHEAD", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultAdvisorBaseURL, cfg.AdvisorBaseURL)
	assert.Equal(t, DefaultAdvisorModel, cfg.AdvisorModel)
	assert.Equal(t, 20*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, 7, cfg.PlanDaysAhead)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Empty(t, cfg.AdvisorAPIKey)
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("ADVISOR_API_KEY", "key")
	t.Setenv("ADVISOR_TIMEOUT", "5s")
	t.Setenv("PLAN_DAYS_AHEAD", "14")
	t.Setenv("REGENERATE_SCHEDULE", "")
	t.Setenv("TIMEZONE", "Europe/Moscow")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "key", cfg.AdvisorAPIKey)
	assert.Equal(t, 5*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, 14, cfg.PlanDaysAhead)
	assert.Empty(t, cfg.RegenerateSchedule)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing dsn":   {"DB_DSN": ""},
		"missing token": {"TELEGRAM_TOKEN": ""},
		"bad timeout":   {"ADVISOR_TIMEOUT": "soon"},
		"bad days":      {"PLAN_DAYS_AHEAD": "-1"},
		"bad timezone":  {"TIMEZONE": "Mars/Olympus"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
