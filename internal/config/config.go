package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.  The JWT secret is always read from the environment and never
// hard-coded into the binary.
type Config struct {
	Env                 string // application environment (e.g. "dev", "prod")
	Port                string // HTTP port to listen on
	DatabaseURL         string // PostgreSQL connection string
	JWTSecret           string // secret used to sign JWTs
	AccessTTLMin        int    // access token time‑to‑live in minutes
	BcryptCost          int    // bcrypt cost for password hashing
	IdentityUserinfoURL string // userinfo endpoint of the external identity provider; empty disables external login
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional variables
// fall back to sensible defaults.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),                    // environment (dev/test/prod)
		Port:                must("APP_PORT"),                   // port to bind the HTTP server
		DatabaseURL:         must("DATABASE_URL"),               // postgres connection string
		JWTSecret:           must("JWT_SECRET"),                 // secret used for signing JWTs
		AccessTTLMin:        envInt("ACCESS_TOKEN_TTL_MIN", 60), // TTL for access tokens in minutes
		BcryptCost:          envInt("BCRYPT_COST", 10),          // bcrypt cost factor
		IdentityUserinfoURL: os.Getenv("IDENTITY_USERINFO_URL"), // external identity provider (optional)
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envInt reads an optional integer environment variable and returns the
// provided default when the variable is unset or malformed.
func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
