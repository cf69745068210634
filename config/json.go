package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("15s") or integer
// nanoseconds in JSON
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// jsonConfig mirrors Config for unmarshalling. Pointers tell absent keys
// from zero values so a file only overrides what it names.
type jsonConfig struct {
	Addr                 *string   `json:"addr"`
	APIURL               *string   `json:"api_url"`
	APITimeout           *Duration `json:"api_timeout"`
	SessionStore         *string   `json:"session_store"`
	SessionPath          *string   `json:"session_path"`
	SessionDSN           *string   `json:"session_dsn"`
	DatastoreProject     *string   `json:"datastore_project"`
	DatastoreNamespace   *string   `json:"datastore_namespace"`
	DatastoreCredentials *string   `json:"datastore_credentials"`
	SessionLifetime      *Duration `json:"session_lifetime"`
	SessionSecret        *string   `json:"session_secret"`
	CSRFSecret           *string   `json:"csrf_secret"`
	CookieSecure         *bool     `json:"cookie_secure"`
	LogFormat            *string   `json:"log_format"`
	LogLevel             *string   `json:"log_level"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

// loadJSON overlays the values of the JSON file at path onto cfg
func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var c jsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	setString(&cfg.Addr, c.Addr)
	setString(&cfg.APIURL, c.APIURL)
	setDuration(&cfg.APITimeout, c.APITimeout)
	setString(&cfg.SessionStore, c.SessionStore)
	setString(&cfg.SessionPath, c.SessionPath)
	setString(&cfg.SessionDSN, c.SessionDSN)
	setString(&cfg.DatastoreProject, c.DatastoreProject)
	setString(&cfg.DatastoreNamespace, c.DatastoreNamespace)
	setString(&cfg.DatastoreCredentials, c.DatastoreCredentials)
	setDuration(&cfg.SessionLifetime, c.SessionLifetime)
	setString(&cfg.SessionSecret, c.SessionSecret)
	setString(&cfg.CSRFSecret, c.CSRFSecret)
	if c.CookieSecure != nil {
		cfg.CookieSecure = *c.CookieSecure
	}
	setString(&cfg.LogFormat, c.LogFormat)
	setString(&cfg.LogLevel, c.LogLevel)
	return nil
}
