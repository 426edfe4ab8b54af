package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "2h" / "20m" style values in yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type JWTConfig struct {
	Secret   string   `yaml:"secret"`
	Issuer   string   `yaml:"issuer"`
	Audience string   `yaml:"audience"`
	TTL      Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Enabled  bool   `yaml:"enabled"`
}

type OTPConfig struct {
	RegisterTTL       Duration `yaml:"register_ttl"`
	ForgotPasswordTTL Duration `yaml:"forgot_password_ttl"`
	ChangePasswordTTL Duration `yaml:"change_password_ttl"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis RedisConfig `yaml:"redis"`
	JWT   JWTConfig   `yaml:"jwt"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	OTP      OTPConfig      `yaml:"otp"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// secret may come from ENV so it does not live in the file
	if v := os.Getenv("TEAMTRACK_JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}

	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = Duration(2 * time.Hour)
	}
	if cfg.OTP.RegisterTTL == 0 {
		cfg.OTP.RegisterTTL = Duration(20 * time.Minute)
	}
	if cfg.OTP.ForgotPasswordTTL == 0 {
		cfg.OTP.ForgotPasswordTTL = Duration(15 * time.Minute)
	}
	if cfg.OTP.ChangePasswordTTL == 0 {
		cfg.OTP.ChangePasswordTTL = Duration(10 * time.Minute)
	}
	return &cfg
}
