package main

import (
	"flag"
	"os"
	"path/filepath"

	"rankcet/internal/cutoff"
	"rankcet/pkg/utils"
)

// export-csv writes the unified, normalized cutoff table as a single CSV
// with canonical headers, which is the quickest way to check what a new
// source generation normalizes to.
func main() {
	cfg := utils.LoadConfig()

	var (
		dataDir = flag.String("data", cfg.DataDir, "cutoff source directory")
		out     = flag.String("out", "data/export/unified.csv", "output CSV path")
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

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Fatal("create output dir: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create %s: %v", *out, err)
	}

	if err := cutoff.WriteCSV(f, table); err != nil {
		f.Close()
		logger.Fatal("export failed: %v", err)
	}
	if err := f.Close(); err != nil {
		logger.Fatal("close %s: %v", *out, err)
	}
	logger.Info("exported %d rows to %s", table.Len(), *out)
}
