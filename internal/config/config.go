package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string         // application environment (e.g. "dev", "prod")
	Port           string         // HTTP port to listen on
	DB             DatabaseConfig // storage backend settings
	JWTSecret      string         // secret used to sign JWTs
	AccessTTLMin   int            // access token time-to-live in minutes
	RefreshTTLDays int            // refresh token time-to-live in days
	BcryptCost     int            // bcrypt cost for password hashing
	AdminTeamID    string         // team whose members are stewards
	MembersTeamID  string         // team granted on verification approval
	Location       *time.Location // timezone used to anchor calendar dates at noon
	AMQPURL        string         // RabbitMQ URL; events are disabled when empty
	ConsumeEvents  bool           // run the event consumer inside the server process
	AWSRegion      string         // region for the SES mailer
	SESSender      string         // From address for SES mail; mail is logged when empty
}

// DatabaseConfig selects and configures the SQL backend.  Driver is either
// "mysql" (production) or "sqlite" (local runs, tooling and tests).
type DatabaseConfig struct {
	Driver     string
	User       string
	Pass       string
	Host       string
	Port       string
	Name       string
	SQLitePath string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DB:             LoadDatabase(),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AdminTeamID:    getenv("ADMIN_TEAM_ID", "admin"),
		MembersTeamID:  getenv("MEMBERS_TEAM_ID", "members"),
		Location:       LoadLocation(),
		AMQPURL:        amqpURL(),
		ConsumeEvents:  envBool("EVENTS_CONSUMER_ENABLED", false),
		AWSRegion:      os.Getenv("AWS_REGION"),
		SESSender:      os.Getenv("SES_SENDER"),
	}
}

// LoadDatabase reads only the storage settings.  The command line tool uses
// it directly because it does not need secrets or HTTP settings.  MySQL
// credentials are required only when the mysql driver is selected.
func LoadDatabase() DatabaseConfig {
	driver := strings.ToLower(getenv("DB_DRIVER", "mysql"))
	switch driver {
	case "sqlite":
		return DatabaseConfig{Driver: driver, SQLitePath: getenv("SQLITE_PATH", "data/hub.db")}
	case "mysql":
		return DatabaseConfig{
			Driver: driver,
			User:   must("DB_USER"),
			Pass:   os.Getenv("DB_PASS"), // empty allowed
			Host:   must("DB_HOST"),
			Port:   must("DB_PORT"),
			Name:   must("DB_NAME"),
		}
	}
	log.Fatalf("unsupported DB_DRIVER: %q", driver)
	return DatabaseConfig{}
}

// LoadLocation resolves LOCAL_TZ, falling back to the process timezone when
// the zone is unknown.
func LoadLocation() *time.Location {
	name := getenv("LOCAL_TZ", "America/Chicago")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("config: unknown LOCAL_TZ %q, using local time: %v", name, err)
		return time.Local
	}
	return loc
}

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

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
