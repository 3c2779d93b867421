package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		DryRun       bool   `yaml:"dry_run"`
	} `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		DryRun   bool   `yaml:"dry_run"`
	} `yaml:"telegram"`
	Jobs struct {
		Workers   int `yaml:"workers"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"jobs"`
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

	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	if cfg.Jobs.Workers <= 0 {
		cfg.Jobs.Workers = 4
	}
	if cfg.Jobs.QueueSize <= 0 {
		cfg.Jobs.QueueSize = 256
	}
	return &cfg
}
