package config

import (
	"time"
)

// Config holds the application configuration.
type Config struct {
	MongoURI       string
	DBName         string
	HTTPPort       string
	StartupTimeout time.Duration
}
