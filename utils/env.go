package utils

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file once, if one exists.
func LoadEnv() {
	envOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("ℹ️  No .env file found, continuing...")
		}
	})
}

// GetDatabaseURL returns the DATABASE_URL for database-backed commands.
func GetDatabaseURL() (string, error) {
	LoadEnv()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return url, nil
}

// HasDatabaseURL reports whether a database is configured at all.
func HasDatabaseURL() bool {
	LoadEnv()
	return os.Getenv("DATABASE_URL") != ""
}
