package config // package config loads application configuration from environment variables

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; a .env file in the working directory is
// loaded first.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBDriver       string // "mysql" or "sqlite"
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	SQLitePath     string // database file when DBDriver is sqlite
	JWTSecret      string // secret used to sign JWTs
	APIKey         string // shared secret expected in the API-Key header of admin calls
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AdminUsername  string // bootstrap admin account (optional)
	AdminPassword  string // bootstrap admin password (required with AdminUsername)
}

// Load reads configuration values from the environment.  Missing
// required variables are collected and reported in a single error.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var r requirer
	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           r.must("APP_PORT"),
		DBDriver:       strings.ToLower(envStr("DB_DRIVER", "mysql")),
		DBUser:         envStr("DB_USER", "root"),
		DBPass:         env.GetString("DB_PASS"),
		DBHost:         envStr("DB_HOST", "127.0.0.1"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         envStr("DB_NAME", "trains"),
		SQLitePath:     envStr("SQLITE_PATH", "trains.db"),
		JWTSecret:      r.must("JWT_SECRET"),
		APIKey:         r.must("API_KEY"),
		AccessTTLMin:   r.mustInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: r.mustInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     r.mustInt("BCRYPT_COST", 10),
		AdminUsername:  env.GetString("ADMIN_USERNAME"),
		AdminPassword:  env.GetString("ADMIN_PASSWORD"),
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		r.errs = append(r.errs, fmt.Sprintf("unsupported DB_DRIVER %q", cfg.DBDriver))
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		r.errs = append(r.errs, "ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	if len(r.errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(r.errs, "; "))
	}
	return cfg, nil
}

// String masks secrets.
func (c Config) String() string {
	return fmt.Sprintf("Config{env=%s port=%s db=%s jwt=*** api_key=***}", c.Env, c.Port, c.DBDriver)
}

// requirer collects problems with required variables so that all of
// them are reported at once.
type requirer struct{ errs []string }

// must retrieves the value of a required environment variable.
func (r *requirer) must(key string) string {
	v := strings.TrimSpace(env.GetString(key))
	if v == "" {
		r.errs = append(r.errs, "missing required env var: "+key)
	}
	return v
}

// mustInt parses an integer variable, falling back to def when unset.
// A value that is set but not an integer is an error.
func (r *requirer) mustInt(key string, def int) int {
	s := strings.TrimSpace(env.GetString(key))
	if s == "" {
		return def
	}
	n, err := parseInt(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}

func parseInt(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) }

// AppEnv returns APP_ENV (default "dev") after loading .env.  Used by
// processes that do not need the full server Config.
func AppEnv() string {
	_ = loadDotEnv()
	return envStr("APP_ENV", "dev")
}
