package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
	}
	Evaluator struct {
		IntervalSeconds     int
		RuleTimeoutSeconds  int
		BatchTimeoutSeconds int
		MaxConcurrent       int
	}
	Notify struct {
		Email struct {
			SMTPHost string
			SMTPPort int
			From     string
			Password string
		}
		Slack struct {
			Token   string
			Channel string
		}
		Webhook struct {
			TimeoutSeconds int
		}
	}
}

// LoadConfig loads the configuration from config.yaml
func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("database.path", "data/pulsewatch.db")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("evaluator.intervalseconds", 60)
	viper.SetDefault("evaluator.ruletimeoutseconds", 10)
	viper.SetDefault("evaluator.batchtimeoutseconds", 120)
	viper.SetDefault("evaluator.maxconcurrent", 10)
	viper.SetDefault("notify.webhook.timeoutseconds", 10)

	var config Config

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, write one with the defaults
			if err := os.MkdirAll("data", 0755); err != nil {
				fmt.Printf("Warning: Failed to create data directory: %v\n", err)
			}
			if err := viper.SafeWriteConfig(); err != nil {
				fmt.Printf("Warning: Failed to write default config: %v\n", err)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Printf("Error unmarshaling config: %v\n", err)
	}

	return &config
}
