package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HX_INT", "42")
	t.Setenv("HX_BAD_INT", "x")
	t.Setenv("HX_BOOL", "true")
	t.Setenv("HX_DUR", "12h")
	t.Setenv("HX_EMPTY", "  ")

	assert.Equal(t, 42, GetEnvInt("HX_INT", 1))
	assert.Equal(t, 1, GetEnvInt("HX_BAD_INT", 1))
	assert.True(t, GetEnvBool("HX_BOOL", false))
	assert.Equal(t, 12*time.Hour, GetEnvDuration("HX_DUR", time.Hour))
	assert.Equal(t, time.Hour, GetEnvDuration("HX_MISSING", time.Hour))
	assert.Equal(t, "fallback", GetEnv("HX_EMPTY", "fallback"))
	assert.Equal(t, "", GetEnv("HX_MISSING"))
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REPORT_WINDOW", "")
	t.Setenv("HOSTEL_TIMEZONE", "")

	LoadEnv()
	assert.Equal(t, 18*time.Hour, ReportWindow)
	assert.Equal(t, "Asia/Karachi", HostelTimezone)
	assert.Equal(t, "*/10 * * * *", OverdueSweepCron)
}
