// Package config handles configuration for the authdash server: defaults,
// an optional JSON file, AUTHDASH_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for authdash.
//
// Fields:
//   - Addr: listen address of the front-end.
//   - APIURL: root of the authentication API, e.g. http://localhost:8080/api.
//   - APITimeout: upper bound for one API call.
//   - SessionStore: memory, fs, sqlite, postgres or datastore.
//   - SessionPath: directory for the fs store.
//   - SessionDSN: DSN for sqlite/postgres.
//   - Datastore*: project, namespace and optional credentials file for datastore.
//   - SessionLifetime: browser session lifetime.
//   - SessionSecret: if set, session data is encrypted at rest.
//   - CSRFSecret: HMAC key for form tokens. Do not use the default in prod.
//   - CookieSecure: mark the session cookie Secure.
//   - LogFormat / LogLevel: text|json and debug|info|warn|error.
type Config struct {
	Addr                 string
	APIURL               string
	APITimeout           time.Duration
	SessionStore         string
	SessionPath          string
	SessionDSN           string
	DatastoreProject     string
	DatastoreNamespace   string
	DatastoreCredentials string
	SessionLifetime      time.Duration
	SessionSecret        string
	CSRFSecret           string
	CookieSecure         bool
	LogFormat            string
	LogLevel             string
}

// LoadDefaults populates Config with development defaults.
// NOTE: CSRFSecret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.APIURL = "http://localhost:8080/api"
	c.APITimeout = 15 * time.Second
	c.SessionStore = "memory"
	c.SessionPath = "./data"
	c.SessionDSN = ""
	c.DatastoreProject = ""
	c.DatastoreNamespace = ""
	c.DatastoreCredentials = ""
	c.SessionLifetime = 24 * time.Hour
	c.SessionSecret = ""
	c.CSRFSecret = "MyTestCSRFSecretKey123456"
	c.CookieSecure = false
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// Load builds a Config from defaults, then the JSON file named by -config
// (or AUTHDASH_CONFIG), then the environment, then the flags in args.
// getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := jsonConfigPath(args)
	if path == "" {
		path = getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := loadEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL))
	}
	switch c.SessionStore {
	case "memory":
	case "fs":
		if c.SessionPath == "" {
			errs = append(errs, errors.New("session_path is required for the fs store"))
		}
	case "sqlite", "postgres":
		if c.SessionDSN == "" {
			errs = append(errs, fmt.Errorf("session_dsn is required for the %s store", c.SessionStore))
		}
	case "datastore":
		if c.DatastoreProject == "" {
			errs = append(errs, errors.New("datastore_project is required for the datastore store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session_store %q", c.SessionStore))
	}
	if c.SessionLifetime <= 0 {
		errs = append(errs, errors.New("session_lifetime must be positive"))
	}
	if c.APITimeout < 0 {
		errs = append(errs, errors.New("api_timeout must not be negative"))
	}
	if c.CSRFSecret == "" {
		errs = append(errs, errors.New("csrf_secret must not be empty"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
