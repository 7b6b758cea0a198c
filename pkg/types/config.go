// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ocean-bridge/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ServiceConfig holds settings for the remote annealing service.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the service API (device and task endpoints).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Token is the bearer token sent with every service request.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// PollConfig controls the wait loop for a submitted task.
type PollConfig struct {
	// Interval is the delay between consecutive status polls (default 1s).
	Interval time.Duration `json:"interval" yaml:"interval"`

	// MaxWait bounds the total wait for a terminal state. Zero means
	// wait indefinitely.
	MaxWait time.Duration `json:"max_wait" yaml:"max_wait"`

	// MaxRetries is the number of retry attempts for transient transport
	// errors during a single status poll (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryBaseDelay is the base duration for exponential backoff on
	// transient transport errors (default 1s). Tests override this to
	// avoid real sleeps.
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
}

// WithDefaults fills zero fields with the default polling policy.
func (c PollConfig) WithDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	return c
}

// S3Destination names the bucket and key prefix where the service writes
// task results. Passed through to the task API verbatim.
type S3Destination struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// JournalConfig holds settings for the local task journal.
type JournalConfig struct {
	// Dir is the directory holding the journal database (default ".").
	Dir string `json:"dir" yaml:"dir"`
}

// BridgeConfig groups all stage configurations.
type BridgeConfig struct {
	Service     ServiceConfig `json:"service" yaml:"service"`
	Poll        PollConfig    `json:"poll" yaml:"poll"`
	Journal     JournalConfig `json:"journal" yaml:"journal"`
	Destination S3Destination `json:"destination" yaml:"destination"`

	// EnergyTolerance is the maximum accepted divergence between a
	// reported sample energy and the energy recomputed from the problem
	// (default 1e-6).
	EnergyTolerance float64 `json:"energy_tolerance" yaml:"energy_tolerance"`
}
