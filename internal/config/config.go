// Package config provides configuration management for the ESXi report tool.
package config

import "time"

// Config is the root configuration structure for the report tool.
type Config struct {
	VCenter       VCenterConfig       `mapstructure:"vcenter" validate:"required"`
	RAC           RACConfig           `mapstructure:"rac"`
	UpdateManager UpdateManagerConfig `mapstructure:"update_manager"`
	Scope         ScopeConfig         `mapstructure:"scope"`
	Report        ReportConfig        `mapstructure:"report"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	HTTP          HTTPConfig          `mapstructure:"http"`
}

// VCenterConfig contains configuration for the vCenter automation API.
type VCenterConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Username string        `mapstructure:"username" validate:"required"`
	Password string        `mapstructure:"password" validate:"required"`
	Insecure bool          `mapstructure:"insecure"` // skip TLS verification
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RACConfig contains configuration for the out-of-band remote access
// controller probe. When disabled, RAC fields in the hardware report
// stay empty.
type RACConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Port     int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// UpdateManagerConfig contains configuration for the patch baseline and
// compliance service.
type UpdateManagerConfig struct {
	// BaselinePattern selects the baseline by name; a pattern matching no
	// baseline is fatal when the patching report is requested.
	BaselinePattern string `mapstructure:"baseline_pattern"`
	// ScanPollInterval is the fixed interval between scan-task progress polls.
	ScanPollInterval time.Duration `mapstructure:"scan_poll_interval"`
	// ScanTimeout bounds the wait for a scan task to complete. On timeout
	// the run continues with empty compliance fields for affected hosts.
	ScanTimeout time.Duration `mapstructure:"scan_timeout"`
}

// ScopeConfig defines the default host scope when no scope flags are given.
type ScopeConfig struct {
	Hosts       []string `mapstructure:"hosts"`
	Clusters    []string `mapstructure:"clusters"`
	Datacenters []string `mapstructure:"datacenters"`
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=screen csv excel json"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	Timezone         string   `mapstructure:"timezone"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}
