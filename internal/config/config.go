package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type TrialConfig struct {
	Duration         string `yaml:"duration"`
	PollInterval     string `yaml:"poll_interval"`
	FailureThreshold int    `yaml:"failure_threshold"`
}

type VerifierConfig struct {
	Timeout string `yaml:"timeout"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Trial    TrialConfig    `yaml:"trial"`
	Verifier VerifierConfig `yaml:"verifier"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port                  string
	GinMode               string
	DSN                   string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	JWTSecret             string
	JWTIssuer             string
	SessionTTL            time.Duration
	TrialDuration         time.Duration
	TrialPollInterval     time.Duration
	TrialFailureThreshold int
	VerifierTimeout       time.Duration
	TwilioSID             string
	TwilioToken           string
	TwilioFrom            string
	CasbinModelPath       string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.JWT.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	trialDuration, err := time.ParseDuration(configFile.Trial.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid trial duration: %w", err)
	}

	pollInterval, err := time.ParseDuration(configFile.Trial.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid trial poll interval: %w", err)
	}

	verifierTimeout, err := time.ParseDuration(configFile.Verifier.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid verifier timeout: %w", err)
	}

	threshold := configFile.Trial.FailureThreshold
	if threshold <= 0 {
		threshold = 3
	}

	return &Config{
		Port:                  fmt.Sprintf("%d", configFile.App.Port),
		GinMode:               configFile.App.GinMode,
		DSN:                   env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:             env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:         env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:               configFile.Redis.DB,
		JWTSecret:             env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:             configFile.JWT.Issuer,
		SessionTTL:            sessionTTL,
		TrialDuration:         trialDuration,
		TrialPollInterval:     pollInterval,
		TrialFailureThreshold: threshold,
		VerifierTimeout:       verifierTimeout,
		TwilioSID:             env("TWILIO_SID", configFile.Twilio.AccountSID),
		TwilioToken:           env("TWILIO_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:            configFile.Twilio.FromNumber,
		CasbinModelPath:       configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
