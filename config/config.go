package config

import (
	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		GetLogger().Info("no .env file, using process environment")
	}
}
