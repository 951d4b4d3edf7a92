package config

import (
	"errors"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// env resolves configuration keys from the process environment.  Keys
// are the environment variable names themselves.
var env = newEnv()

var dotenvOnce sync.Once

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// loadDotEnv loads a .env file from the working directory into the
// process environment once.  Variables already set take precedence and
// a missing file is ignored.
func loadDotEnv() error {
	var err error
	dotenvOnce.Do(func() {
		if e := godotenv.Load(); e != nil && !errors.Is(e, fs.ErrNotExist) {
			err = e
		}
	})
	return err
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(env.GetString(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	if strings.TrimSpace(env.GetString(k)) == "" {
		return d
	}
	switch strings.ToLower(env.GetString(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if strings.TrimSpace(env.GetString(k)) == "" {
		return d
	}
	if n, err := parseInt(env.GetString(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	s := strings.TrimSpace(env.GetString(k))
	if s == "" {
		return d
	}
	if dur, err := time.ParseDuration(s); err == nil {
		return dur
	}
	return d
}
