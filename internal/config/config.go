package config

import (
	"fmt"
	"os"
	"time"

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
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

type MailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Session  SessionConfig  `yaml:"session"`
	Mail     MailConfig     `yaml:"mail"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port                 string
	GinMode              string
	DSN                  string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	JWTSecret            string
	JWTIssuer            string
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	OTP_TTL              time.Duration
	OTP_Length           int
	OTP_MaxAttempts      int
	OTP_ResendWindow     time.Duration
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	MailFrom             string
	CasbinModelPath      string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for the
// secrets that should not live in the file.
func Load() (*Config, error) {
	return LoadFrom(env("AUTHCORE_CONFIG", "config/config.yml"))
}

// LoadFrom reads and validates a config file at an explicit path.
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	sessTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	sweep, err := time.ParseDuration(configFile.Session.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep interval: %w", err)
	}

	return &Config{
		Port:                 fmt.Sprintf("%d", configFile.App.Port),
		GinMode:              configFile.App.GinMode,
		DSN:                  env("AUTHCORE_DSN", configFile.Database.DSN),
		RedisAddr:            env("AUTHCORE_REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:        env("AUTHCORE_REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:              configFile.Redis.DB,
		JWTSecret:            env("AUTHCORE_JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:            configFile.JWT.Issuer,
		AccessTTL:            accTTL,
		RefreshTTL:           refTTL,
		OTP_TTL:              otpTTL,
		OTP_Length:           configFile.OTP.Length,
		OTP_MaxAttempts:      configFile.OTP.MaxAttempts,
		OTP_ResendWindow:     resWnd,
		SessionTTL:           sessTTL,
		SessionSweepInterval: sweep,
		SMTPHost:             env("AUTHCORE_SMTP_HOST", configFile.Mail.SMTPHost),
		SMTPPort:             configFile.Mail.SMTPPort,
		SMTPUsername:         env("AUTHCORE_SMTP_USERNAME", configFile.Mail.Username),
		SMTPPassword:         env("AUTHCORE_SMTP_PASSWORD", configFile.Mail.Password),
		MailFrom:             configFile.Mail.From,
		CasbinModelPath:      configFile.Casbin.ModelPath,
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
