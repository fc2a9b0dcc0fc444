package main

import (
	"context"
	"time"

	mongoMigration "clinicbook/internal/migrations/mongo"
	sqliteMigration "clinicbook/internal/migrations/sqlite"
	"clinicbook/pkg/config"
)

const JobName = "migrate"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting migration job", "driver", cfg.StoreDriver)
	defer cfg.GracefulShutdown()

	switch cfg.StoreDriver {
	case config.StoreMongo:
		cfg.SetMongo()
		if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
			cfg.Log.Fatal("Migration failed", "error", err)
		}
	case config.StoreSQLite:
		cfg.SetSQLite()
		if err := sqliteMigration.RunMigration(cfg.Client.SQLite, cfg.Log); err != nil {
			cfg.Log.Fatal("Migration failed", "error", err)
		}
	default:
		cfg.Log.Info("Nothing to migrate for driver", "driver", cfg.StoreDriver)
	}

	cfg.Log.Info("Migration completed successfully")
}
