// Package config loads the API settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the API process.  Each field
// corresponds to an environment variable.
type Config struct {
	Env             string        // application environment (dev, test, prod)
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBMaxConns      int           // connection pool size
	AutoMigrate     bool          // apply the embedded schema at startup
	JWTSecret       string        // secret used to verify bearer tokens
	RequestTimeout  time.Duration // upper bound for one request's DB work
	StrictOwnership bool          // booking updates must target the caller's own booking
}

// Load reads a .env file when present and then the process environment.
// Required variables are enforced by must(); a missing one stops the
// program with a fatal log message.
func Load() Config {
	LoadDotEnv()
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		DBMaxConns:      envInt("DB_MAX_CONNS", 25),
		AutoMigrate:     envBool("DB_AUTO_MIGRATE", false),
		JWTSecret:       must("JWT_SECRET"),
		RequestTimeout:  envDur("REQUEST_TIMEOUT", 5*time.Second),
		StrictOwnership: envBool("BOOKING_STRICT_OWNERSHIP", false),
	}
}

// LoadDotEnv loads the given files (".env" by default) into the
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: cannot load %s: %v", f, err)
		}
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
