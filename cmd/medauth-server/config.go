package main

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// serverConfig is read from environment variables or a local .env file.
type serverConfig struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	TokenSigningKey string `mapstructure:"TOKEN_SIGNING_KEY"`
	AuditLogPath    string `mapstructure:"AUDIT_LOG_PATH"`
}

func loadConfig() (serverConfig, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("TOKEN_SIGNING_KEY")
	_ = viper.BindEnv("AUDIT_LOG_PATH")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	var cfg serverConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return serverConfig{}, err
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return cfg, nil
}
