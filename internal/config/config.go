package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Configuration struct {
	// RemoteURL is the base URL of the hosted auth/storage service.
	RemoteURL string
	// RemoteAnonKey is the public API key sent with every request; it is
	// also the bearer token while nobody is signed in.
	RemoteAnonKey string
	// Port the local web application listens on.
	Port uint16
	// DbPath is the path to the local sqlite database file holding lesson
	// drafts and the repair task tables.
	DbPath string
	// MigrationsFolder holds the sql migrations applied at setup.
	MigrationsFolder string
	// RefreshInterval is how often the access token is refreshed while a
	// session is live.
	RefreshInterval time.Duration
	// Debug, if true, lowers the log level to debug.
	Debug bool
}

// ReadConfig loads the configuration from lessondesk.yaml in the working
// directory, with LESSONDESK_* environment variables taking precedence. The
// remote URL and key have no sensible default and must be present.
func ReadConfig() (Configuration, error) {
	v := viper.New()
	v.SetConfigName("lessondesk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("lessondesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "lessondesk.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("refresh_interval", "10m")
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, err
		}
		// No file is fine; the environment may carry everything.
	}

	cfg := Configuration{
		RemoteURL:        v.GetString("remote_url"),
		RemoteAnonKey:    v.GetString("remote_anon_key"),
		Port:             v.GetUint16("port"),
		DbPath:           v.GetString("db_path"),
		MigrationsFolder: v.GetString("migrations_folder"),
		RefreshInterval:  v.GetDuration("refresh_interval"),
		Debug:            v.GetBool("debug"),
	}

	var missing []string
	if cfg.RemoteURL == "" {
		missing = append(missing, "remote_url")
	}
	if cfg.RemoteAnonKey == "" {
		missing = append(missing, "remote_anon_key")
	}
	if len(missing) > 0 {
		return Configuration{}, errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}
