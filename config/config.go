// Package config loads the run parameters a tsflow CLI needs — the
// back-test time window, run mode, and log level — from the environment and
// an optional .env file, the way gokit's config package resolves service
// configuration, simplified down to the handful of settings this module's
// CLI surface actually exposes.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RunMode selects which ExecutionContext flavour a run uses.
type RunMode string

const (
	RunModeBackTest RunMode = "backtest"
	RunModeRealTime RunMode = "realtime"
)

// Config holds everything a run needs to pick a time window, execution
// mode, and logging verbosity.
type Config struct {
	StartTime time.Time
	EndTime   time.Time
	Mode      RunMode
	LogLevel  string
}

const timeLayout = time.RFC3339

// Load reads configuration from environment variables, optionally seeded by
// a .env file at envFile (ignored if it doesn't exist, matching godotenv's
// own behaviour for an absent file in production). Recognised keys:
// TSFLOW_START_TIME, TSFLOW_END_TIME, TSFLOW_MODE, TSFLOW_LOG_LEVEL.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	v.SetEnvPrefix("TSFLOW")
	v.AutomaticEnv()
	v.SetDefault("MODE", string(RunModeBackTest))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("START_TIME", time.Now().UTC().Format(timeLayout))
	v.SetDefault("END_TIME", time.Now().UTC().Add(24*time.Hour).Format(timeLayout))

	start, err := time.Parse(timeLayout, v.GetString("START_TIME"))
	if err != nil {
		return Config{}, fmt.Errorf("config: TSFLOW_START_TIME: %w", err)
	}
	end, err := time.Parse(timeLayout, v.GetString("END_TIME"))
	if err != nil {
		return Config{}, fmt.Errorf("config: TSFLOW_END_TIME: %w", err)
	}

	return Config{
		StartTime: start,
		EndTime:   end,
		Mode:      RunMode(v.GetString("MODE")),
		LogLevel:  v.GetString("LOG_LEVEL"),
	}, nil
}
