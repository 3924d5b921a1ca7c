package steam

import "time"

// Config holds configuration for the Steam store metadata client.
type Config struct {
	// BaseURL is the appdetails endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://store.steampowered.com/api/appdetails"`
	// CountryCode is sent as the cc query parameter.
	CountryCode string `mapstructure:"country_code" default:"us"`
	// Language is sent as the l query parameter.
	Language string `mapstructure:"language" default:"english"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
	// TimeoutSeconds bounds one transport attempt: dial, TLS and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxAttempts is the number of call-level attempts per resolution.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// RetryDelayMillis is the fixed pause between call-level attempts.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"2000"`
	// TransportRetries is the number of transport-level retries on 429/5xx and connection errors.
	TransportRetries int `mapstructure:"transport_retries" default:"5"`
	// BackoffBaseMillis is the initial transport backoff interval.
	BackoffBaseMillis int `mapstructure:"backoff_base_ms" default:"2000"`
	// PoolSize caps open connections per host; further requests wait for a free connection.
	PoolSize int `mapstructure:"pool_size" default:"20"`
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) retryDelay() time.Duration {
	if c.RetryDelayMillis < 0 {
		return 0
	}
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

func (c Config) attempts() int {
	if c.MaxAttempts <= 0 {
		return 3
	}
	return c.MaxAttempts
}

func (c Config) poolSize() int {
	if c.PoolSize <= 0 {
		return 20
	}
	return c.PoolSize
}

// requestTimeout bounds one HTTP exchange: every transport attempt plus the
// longest wait allowed before each retry.
func (c Config) requestTimeout() time.Duration {
	retries := c.TransportRetries
	if retries < 0 {
		retries = 0
	}
	return c.timeout()*time.Duration(retries+1) + maxRetryWait*time.Duration(retries)
}
