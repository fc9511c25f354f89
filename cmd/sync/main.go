// Command sync reconciles the question catalog against the CSV sources
// once and prints the per-suite reports. Intended for one-off runs after
// editing the source files; the server also syncs on its own schedule.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rpshnkv/trainerbot/internal/adapter/postgres"
	questionrepo "github.com/rpshnkv/trainerbot/internal/adapter/postgres/question"
	"github.com/rpshnkv/trainerbot/internal/app"
	"github.com/rpshnkv/trainerbot/internal/config"
	"github.com/rpshnkv/trainerbot/internal/service/catalog"
	"github.com/rpshnkv/trainerbot/internal/source/csvfile"
)

func main() {
	dir := flag.String("dir", "", "override catalog source directory")
	suites := flag.String("suites", "", "comma-separated suites to sync (default: configured suites)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if *dir != "" {
		cfg.Catalog.Dir = *dir
	}
	if *suites != "" {
		cfg.Catalog.Suites = strings.Split(*suites, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := catalog.NewService(
		logger,
		questionrepo.New(pool),
		csvfile.NewLoader(cfg.Catalog.Dir),
		postgres.NewTxManager(pool),
		cfg.Catalog.Suites,
	)

	reports, err := svc.SyncAll(ctx)
	for _, r := range reports {
		fmt.Printf("%s: %d in source, %d created, %d updated, %d deactivated\n",
			r.Suite, r.TotalInSource, r.Created, r.Updated, r.Deactivated)
	}
	if err != nil {
		logger.Error("sync finished with failures", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
