package config

import (
	"flag"
	"io"
	"strings"
)

// jsonConfigPath finds -config/--config in args without parsing the rest
func jsonConfigPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// parseFlags overlays command-line flags onto cfg. Flags not given keep the
// value from the earlier layers.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("authdash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.String("config", "", "path to a JSON config file")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "authentication API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "timeout for one API call")
	fs.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "memory, fs, sqlite, postgres or datastore")
	fs.StringVar(&cfg.SessionPath, "session-path", cfg.SessionPath, "directory for the fs session store")
	fs.StringVar(&cfg.SessionDSN, "session-dsn", cfg.SessionDSN, "DSN for the sqlite/postgres session store")
	fs.StringVar(&cfg.DatastoreProject, "datastore-project", cfg.DatastoreProject, "GCP project for the datastore session store")
	fs.StringVar(&cfg.DatastoreNamespace, "datastore-namespace", cfg.DatastoreNamespace, "datastore namespace")
	fs.StringVar(&cfg.DatastoreCredentials, "datastore-credentials", cfg.DatastoreCredentials, "service account credentials file")
	fs.DurationVar(&cfg.SessionLifetime, "session-lifetime", cfg.SessionLifetime, "browser session lifetime")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "encrypt session data at rest with this secret")
	fs.StringVar(&cfg.CSRFSecret, "csrf-secret", cfg.CSRFSecret, "HMAC key for form tokens")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "send the session cookie over HTTPS only")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	return fs.Parse(args)
}
