package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
}

// Load reads configuration from environment variables, with an optional .env
// file in the working directory. Environment variables win.
func Load() Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_DSN", "commerce.db") // sqlite file in project root
	viper.SetDefault("LOG_FILE", "./commerce.log")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] ignoring unreadable config file: %v", err)
		}
	}

	cfg := Config{
		Port:    viper.GetString("PORT"),
		DBDSN:   viper.GetString("DB_DSN"),
		LogFile: viper.GetString("LOG_FILE"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}
