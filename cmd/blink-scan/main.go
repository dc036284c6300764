// Command blink-scan runs the multi-scale photon-trigger search over a
// range of calendar days for a single satellite, writing one signal file
// per day and recording completion in the scan task database.
//
// Concrete instrument telemetry decoders are not part of this module;
// blink-scan wires the synthetic internal/testdata adapter in their place.
// A real deployment would substitute its own adapter.EventSource while
// keeping everything downstream of it unchanged.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/fsutil"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/store"
	"github.com/tgfscan/blink-scan/internal/testdata"
	"github.com/tgfscan/blink-scan/internal/version"
)

var (
	fromFlag    = flag.String("from", "", "first UTC day to scan, YYYY-MM-DD (required)")
	toFlag      = flag.String("to", "", "last UTC day to scan, YYYY-MM-DD (defaults to -from)")
	groupCount  = flag.Int("groups", 18, "number of detector-unit background groups")
	workers     = flag.Int("workers", 4, "number of hours searched concurrently per day")
	force       = flag.Bool("force", false, "re-run days even if their output already looks current")
	configPath  = flag.String("config", "", "path to a tuning config JSON file (defaults to built-in defaults)")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *fromFlag == "" {
		log.Fatal("-from is required")
	}
	from, err := time.Parse("2006-01-02", *fromFlag)
	if err != nil {
		log.Fatalf("invalid -from %q: %v", *fromFlag, err)
	}
	to := from
	if *toFlag != "" {
		to, err = time.Parse("2006-01-02", *toFlag)
		if err != nil {
			log.Fatalf("invalid -to %q: %v", *toFlag, err)
		}
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
	}

	dbPath := os.Getenv("WWLLN_DB_PATH")
	if dbPath == "" {
		log.Fatal("WWLLN_DB_PATH is required")
	}
	for _, name := range []string{"HXMT_1B_DIR", "HXMT_1K_DIR", "HXMT_EC_DIR"} {
		if os.Getenv(name) == "" {
			log.Printf("warning: %s is unset; the synthetic event source does not read it", name)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open database %s: %v", dbPath, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskStore := store.NewTaskStore(db)
	lightningStore := store.NewLightningStore(db)
	source := testdata.Source[satellite.HxmtHe]{BackgroundRate: 20, GroupCount: *groupCount}

	runID := uuid.New().String()
	log.Printf("blink-scan: run_id=%s from=%s to=%s", runID, *fromFlag, to.Format("2006-01-02"))

	result, err := RunScan[satellite.HxmtHe, testdata.Event](ctx, fsutil.OSFileSystem{}, taskStore, source, lightningStore, cfg, Options{
		GroupCount: *groupCount,
		Workers:    *workers,
		From:       from,
		To:         to,
		Force:      *force,
	})
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	log.Printf("blink-scan: run_id=%s done, days_run=%d days_skipped=%d chunk_errors=%d", runID, result.DaysRun, result.DaysSkipped, result.ChunkErrors)
}
