package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validTestConfig returns a minimal configuration that passes validation.
func validTestConfig() *Config {
	return &Config{
		VCenter: VCenterConfig{
			Endpoint: "https://vcenter.lab.local",
			Username: "svc-report",
			Password: "secret",
		},
		Report: ReportConfig{
			Formats:  []string{"screen"},
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validTestConfig()))
}

func TestValidate_MissingVCenterFields(t *testing.T) {
	cfg := validTestConfig()
	cfg.VCenter.Username = ""
	cfg.VCenter.Password = ""

	err := Validate(cfg)
	require.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, verrs, 2)

	fields := []string{verrs[0].Field, verrs[1].Field}
	assert.Contains(t, fields, "vcenter.username")
	assert.Contains(t, fields, "vcenter.password")
}

func TestValidate_InvalidEndpointURL(t *testing.T) {
	cfg := validTestConfig()
	cfg.VCenter.Endpoint = "not a url"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vcenter.endpoint")
}

func TestValidate_InvalidFormat(t *testing.T) {
	cfg := validTestConfig()
	cfg.Report.Formats = []string{"screen", "pdf"}

	err := Validate(cfg)
	require.Error(t, err)
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validTestConfig()
	cfg.Report.Timezone = "Mars/Olympus_Mons"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestValidate_RACRequiresCredentials(t *testing.T) {
	t.Run("disabled probe needs no credentials", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.RAC = RACConfig{Enabled: false}
		assert.NoError(t, Validate(cfg))
	})

	t.Run("enabled probe requires username and password", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.RAC = RACConfig{Enabled: true}

		err := Validate(cfg)
		require.Error(t, err)

		verrs, ok := err.(ValidationErrors)
		require.True(t, ok)
		assert.Len(t, verrs, 2)
		assert.Equal(t, "rac.username", verrs[0].Field)
		assert.Equal(t, "rac.password", verrs[1].Field)
	})
}

func TestValidate_ScanIntervalMustFitTimeout(t *testing.T) {
	cfg := validTestConfig()
	cfg.UpdateManager.ScanPollInterval = 20 * time.Minute
	cfg.UpdateManager.ScanTimeout = 15 * time.Minute

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed scan timeout")
}

func TestFormatFieldName(t *testing.T) {
	assert.Equal(t, "vcenter.endpoint", formatFieldName("Config.VCenter.Endpoint"))
	assert.Equal(t, "rac.port", formatFieldName("Config.RAC.Port"))
}
