package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/config"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/services"
)

func main() {
	var dbURLFlag string
	var days int
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&days, "days", 90, "delete audit entries older than this many days")
	flag.Parse()

	if days < 1 {
		log.Fatal("-days must be positive")
	}

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := logrus.New()
	audit := services.NewAuditService(db, logger, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	deleted, err := audit.CleanupOldAuditLogs(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		log.Fatalf("failed to prune audit logs: %v", err)
	}

	fmt.Printf("Deleted %d audit entries older than %d days.\n", deleted, days)
}
