package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "AUTHDASH_"

// loadEnv overlays AUTHDASH_* variables onto cfg, e.g. AUTHDASH_API_URL
func loadEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	var errs []error
	str := func(key string, dst *string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := getenv(envPrefix + key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("ADDR", &cfg.Addr)
	str("API_URL", &cfg.APIURL)
	dur("API_TIMEOUT", &cfg.APITimeout)
	str("SESSION_STORE", &cfg.SessionStore)
	str("SESSION_PATH", &cfg.SessionPath)
	str("SESSION_DSN", &cfg.SessionDSN)
	str("DATASTORE_PROJECT", &cfg.DatastoreProject)
	str("DATASTORE_NAMESPACE", &cfg.DatastoreNamespace)
	str("DATASTORE_CREDENTIALS", &cfg.DatastoreCredentials)
	dur("SESSION_LIFETIME", &cfg.SessionLifetime)
	str("SESSION_SECRET", &cfg.SessionSecret)
	str("CSRF_SECRET", &cfg.CSRFSecret)
	if v := getenv(envPrefix + "COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCOOKIE_SECURE: %w", envPrefix, err))
		} else {
			cfg.CookieSecure = b
		}
	}
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_LEVEL", &cfg.LogLevel)
	return errors.Join(errs...)
}
