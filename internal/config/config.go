package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses hold and sweep durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// hold lifecycle knobs.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret used to verify JWTs issued by the identity service
	RabbitURL     string        // AMQP connection string for the notification broker
	HoldTTL       time.Duration // default lifetime of a seat hold
	SweepInterval time.Duration // how often the hold sweeper scans for expirations
	StoreTimeout  time.Duration // per-operation deadline for primary store calls
	LogLevel      string        // zap log level ("debug", "info", "warn", "error")
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The hold lifecycle
// knobs have house defaults and only need setting when a venue wants
// different timings.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),      // environment (dev/test/prod)
		Port:          must("APP_PORT"),     // port to bind the HTTP server
		DBUser:        must("DB_USER"),      // database user
		DBPass:        os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:        must("DB_HOST"),      // database host
		DBPort:        must("DB_PORT"),      // database port
		DBName:        must("DB_NAME"),      // database name
		JWTSecret:     must("JWT_SECRET"),   // secret used for verifying JWTs
		RabbitURL:     amqpURL(),            // broker URL (empty lets the publisher use its default)
		HoldTTL:       envDur("HOLD_TTL", 5*time.Minute),
		SweepInterval: envDur("HOLD_SWEEP_INTERVAL", 30*time.Second),
		StoreTimeout:  envDur("STORE_TIMEOUT", 3*time.Second),
		LogLevel:      envStr("LOG_LEVEL", "info"),
	}
}

// amqpURL prefers RABBITMQ_URL but accepts AMQP_URL as an alias, matching
// what common hosting providers inject.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
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