package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "15m" style strings and integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	SessionPurgeInterval         timex.Duration `json:"session_purge_interval"`
	MaxPostLength                int            `json:"max_post_length"`
	LogLevel                     string         `json:"log_level"`
	AdminName                    string         `json:"admin_name"`
	AdminEmail                   string         `json:"admin_email"`
	AdminPassword                string         `json:"admin_password"`
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file keep their current value. An unreadable or malformed file
// panics: the process must not start on a half-applied config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTokenValidityDuration.Duration > 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.SessionPurgeInterval.Duration > 0 {
		config.SessionPurgeInterval = c.SessionPurgeInterval.Duration
	}
	if c.MaxPostLength > 0 {
		config.MaxPostLength = c.MaxPostLength
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.AdminName, c.AdminName)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
