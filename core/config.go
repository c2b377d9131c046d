package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all client settings. Every value has a sane default and can be
// overridden from the environment (prefixed with the current ENV name) or a
// config/.env.<env> file.
type Config struct {
	Env     string
	AppName string
	Debug   bool

	// BaseURL is the root of the EduLearn REST backend.
	BaseURL string
	// RequestTimeout bounds every single HTTP attempt.
	RequestTimeout time.Duration

	// TokenExpiry is the single session expiry ceiling, enforced in one
	// place (the session manager). Startup checks reuse it rather than
	// carrying a second threshold.
	TokenExpiry time.Duration
	// NetworkErrorWindow is how long a recorded connectivity failure stays
	// "active" for banner consumers.
	NetworkErrorWindow time.Duration

	RetryMaxAttempts  int
	RetryInitialDelay time.Duration

	// PollInterval is the default cadence for view refresh pollers.
	PollInterval time.Duration

	// StorePath is the directory backing the persistent client-state store.
	// Empty means in-memory only.
	StorePath string

	RollbarToken string
	Build        string

	// RazorpayKey is the publishable checkout key.
	RazorpayKey string
}

// NewConfig loads defaults, the optional .env file for the current ENV and
// finally the environment itself, in that order of precedence.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "EduLearn")
	conf.SetDefault("baseURL", "http://localhost:9090")
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("tokenExpiry", 24*time.Hour)
	conf.SetDefault("networkErrorWindow", 30*time.Second)
	conf.SetDefault("retryMaxAttempts", 3)
	conf.SetDefault("retryInitialDelay", time.Second)
	conf.SetDefault("pollInterval", 30*time.Second)
	conf.SetDefault("storePath", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("razorpayKey", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:                env,
		AppName:            conf.GetString("appName"),
		Debug:              conf.GetBool("debug"),
		BaseURL:            strings.TrimRight(conf.GetString("baseURL"), "/"),
		RequestTimeout:     conf.GetDuration("requestTimeout"),
		TokenExpiry:        conf.GetDuration("tokenExpiry"),
		NetworkErrorWindow: conf.GetDuration("networkErrorWindow"),
		RetryMaxAttempts:   conf.GetInt("retryMaxAttempts"),
		RetryInitialDelay:  conf.GetDuration("retryInitialDelay"),
		PollInterval:       conf.GetDuration("pollInterval"),
		StorePath:          conf.GetString("storePath"),
		RollbarToken:       conf.GetString("rollbarToken"),
		Build:              conf.GetString("build"),
		RazorpayKey:        conf.GetString("razorpayKey"),
	}
}
