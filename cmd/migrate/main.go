package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/task"
	"github.com/wms/backend/internal/domain/warehouse"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// models is the full schema, in dependency order
var models = []any{
	&catalog.Product{},
	&catalog.Storage{},
	&catalog.StorageCell{},
	&catalog.Shift{},
	&catalog.ProductionShop{},
	&catalog.Direction{},
	&catalog.Client{},
	&task.ExternalSource{},
	&task.Operation{},
	&task.OperationPallet{},
	&task.OperationProduct{},
	&task.OperationCell{},
	&warehouse.Pallet{},
	&warehouse.PalletProduct{},
	&warehouse.PalletSource{},
	&warehouse.StorageCellContentState{},
	&warehouse.AggregationCode{},
}

func main() {
	var (
		driver     string
		sqlitePath string
		logLevel   string
	)
	flag.StringVar(&driver, "driver", "postgres", "Database driver (postgres, sqlite)")
	flag.StringVar(&sqlitePath, "sqlite-path", "wms.db", "SQLite database path (sqlite driver only)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := openDatabase(driver, sqlitePath, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Running migrations", zap.String("driver", driver), zap.Int("models", len(models)))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migrations applied successfully")
}

func openDatabase(driver, sqlitePath string, log *zap.Logger) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		// local development convenience; production runs postgres
		return gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	case "postgres":
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		return gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}
