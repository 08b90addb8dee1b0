package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   database DSN
//	-s string   session token HMAC secret
//	-t int      session token validity, minutes
//	-i int      expired session purge interval, minutes (0 disables)
//	-m int      maximum micropost length
//	-l string   log level
//	-n string   bootstrap admin name
//	-e string   bootstrap admin email
//	-p string   bootstrap admin password
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// layers (for example -c) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-i", "-m", "-l", "-n", "-e", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")
	purgeInterval := fs.Int("i", int(config.SessionPurgeInterval.Minutes()), "session_purge_interval (in minutes)")
	fs.IntVar(&config.MaxPostLength, "m", config.MaxPostLength, "maximum micropost length")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.AdminName, "n", config.AdminName, "bootstrap admin name")
	fs.StringVar(&config.AdminEmail, "e", config.AdminEmail, "bootstrap admin email")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "bootstrap admin password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.SessionPurgeInterval = time.Duration(*purgeInterval) * time.Minute
}
