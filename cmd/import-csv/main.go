package main

import (
	"context"
	"flag"
	"time"

	"rankcet/internal/cutoff"
	"rankcet/internal/snapshot"
	"rankcet/pkg/database"
	"rankcet/pkg/utils"
)

// import-csv normalizes the cutoff source directory and stores the unified
// table in a SQLite snapshot for offline inspection.
func main() {
	cfg := utils.LoadConfig()
	dbCfg := database.DefaultConfig()

	var (
		dataDir = flag.String("data", cfg.DataDir, "cutoff source directory")
		dbPath  = flag.String("db", dbCfg.Path, "output SQLite snapshot path")
		keep    = flag.Bool("append", false, "append to an existing snapshot file instead of replacing it")
	)
	flag.Parse()

	logger := utils.NewLogger(cfg.Debug)

	registry, err := cutoff.RegistryFromConfig(cfg)
	if err != nil {
		logger.Fatal("schema config: %v", err)
	}

	table, err := cutoff.LoadDir(*dataDir, cutoff.LoadOptions{Registry: registry, Logger: logger})
	if err != nil {
		logger.Fatal("load cutoffs: %v", err)
	}
	if table.Empty() {
		logger.Fatal("no cutoff rows found in %s; nothing to import", *dataDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(database.Config{Path: *dbPath, Fresh: !*keep})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed: %v", err)
	}

	id, err := snapshot.Save(ctx, db, *dataDir, table)
	if err != nil {
		logger.Fatal("save snapshot: %v", err)
	}
	logger.Info("imported %d rows from %s into %s (snapshot %d)", table.Len(), *dataDir, *dbPath, id)
}
