package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custodia/internal/config"
	"custodia/internal/custodia/service"
	"custodia/internal/custodia/store/sqlite"
	"custodia/internal/db"
	"custodia/internal/httpapi"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "custodia-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer database.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, database); err != nil {
			logger.Fatalf("seed dev data: %v", err)
		}
	}

	writer := db.NewWorker(database)
	defer writer.Close()

	people := sqlite.NewPersonStore(database, writer)
	assets := sqlite.NewAssetStore(database, writer)
	txs := sqlite.NewTransactionStore(database, writer)
	visits := sqlite.NewVisitStore(database, writer)

	resolver := service.NewIdentityResolver(people)
	ledger := service.NewLedgerService(people, assets, txs)
	projector := service.NewProjector(assets, txs)
	overdue := service.NewOverdueScanner(txs, service.Thresholds{
		Vehicle: cfg.VehicleOverdue,
		Key:     cfg.KeyOverdue,
	})
	visitSvc := service.NewVisitService(visits, people)
	directory := service.NewDirectory(people)
	catalog := service.NewAssetCatalog(assets)

	watcher := service.NewOverdueWatcher(overdue, cfg.OverdueScanInterval, logger)
	watcher.Start(ctx)
	defer watcher.Stop()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:    logger,
		Addr:      cfg.HTTPAddr,
		Resolver:  resolver,
		Ledger:    ledger,
		Projector: projector,
		Overdue:   overdue,
		Visits:    visitSvc,
		Directory: directory,
		Catalog:   catalog,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
