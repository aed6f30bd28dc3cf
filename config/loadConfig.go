package config

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultStartupTimeoutSeconds = 30
	defaultMongoURI              = "mongodb://localhost:27017/moneymanager"
	defaultMongoHost             = "localhost"
	defaultMongoPort             = "27017"
	defaultDBName                = "moneymanager"
	defaultHTTPPort              = "5000"
	envMongoURI                  = "MONGO_URI"
	envMongoHost                 = "MONGO_HOST"
	envMongoUser                 = "MONGO_USER"
	envMongoPassword             = "MONGO_PASSWORD"
	envDBName                    = "DB_NAME"
	envHTTPPort                  = "PORT"
)

// LoadConfig loads the application configuration from environment variables
// or uses default values. A .env file in the working directory is read first
// when present.
func LoadConfig(ctx context.Context, logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.DebugContext(ctx, "No .env file loaded", "error", err)
	}

	mongoURI := os.Getenv(envMongoURI)
	mongoURI = formatMongoURI(ctx, mongoURI, logger)

	dbName := os.Getenv(envDBName)
	if dbName == "" {
		dbName = defaultDBName
		logger.DebugContext(ctx, "Using default database name", "db", dbName)
	} else {
		logger.DebugContext(ctx, "Using database name from environment variable", "db", dbName)
	}

	httpPort := os.Getenv(envHTTPPort)
	if httpPort == "" {
		httpPort = defaultHTTPPort
		logger.DebugContext(ctx, "Using default HTTP port", "port", httpPort)
	} else {
		logger.DebugContext(ctx, "Using HTTP port from environment variable", "port", httpPort)
	}

	return &Config{
		MongoURI:       mongoURI,
		DBName:         dbName,
		HTTPPort:       httpPort,
		StartupTimeout: defaultStartupTimeoutSeconds * time.Second,
	}
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable", "uri", mongoURI)
		return mongoURI
	}

	mongoHost := os.Getenv(envMongoHost)
	if mongoHost == "" {
		mongoHost = defaultMongoHost
		logger.DebugContext(ctx, "Using default MongoDB host", "host", mongoHost)
	} else {
		logger.DebugContext(ctx, "Using MongoDB host from environment variable", "host", mongoHost)
	}

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		hostPort := net.JoinHostPort(mongoHost, defaultMongoPort)
		mongoURI = fmt.Sprintf(
			"mongodb://%s:%s@%s/%s?authSource=admin",
			mongoUser,
			mongoPassword,
			hostPort,
			defaultDBName,
		)
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "uri", mongoURI)
	} else {
		mongoURI = defaultMongoURI
		logger.DebugContext(ctx, "Using default MongoDB URI", "uri", mongoURI)
	}
	return mongoURI
}
