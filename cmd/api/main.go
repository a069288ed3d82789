package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"veritax.org/internal/audit"
	"veritax.org/internal/blob"
	"veritax.org/internal/compliance"
	"veritax.org/internal/config"
	"veritax.org/internal/consent"
	"veritax.org/internal/dbx"
	"veritax.org/internal/delegation"
	"veritax.org/internal/evidence"
	"veritax.org/internal/filing"
	"veritax.org/internal/httpapi"
	"veritax.org/internal/identity"
	"veritax.org/internal/itr"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

var version = "0.3.1"

func main() {
	obs.Init()
	cfg := config.Load()

	var (
		db     *sql.DB
		runner dbx.Runner
		repos  repomanager.Manager
	)
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		runner = dbx.SQLRunner{DB: db}
		repos = repomanager.NewPostgresManager()
	} else {
		log.Print("no DSN configured, running with the in-memory store")
		runner = dbx.Passthrough{}
		repos = repomanager.NewMemoryManager()
	}

	blobs, err := buildBlobStore(cfg)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	ev := evidence.NewService(repos, blobs)
	au := audit.NewService(repos)
	del := delegation.NewService(runner, repos, ev)
	api := httpapi.New(httpapi.ReadyProbe{DB: db}, httpapi.Deps{
		Runner:         runner,
		Repos:          repos,
		Tokens:         identity.NewTokens([]byte(cfg.TokenSecret), cfg.TokenTTL),
		Filings:        filing.NewService(runner, repos, ev, au, del),
		Consents:       consent.NewService(runner, repos, ev),
		Delegations:    del,
		Determinations: itr.NewService(runner, repos),
		Compliance:     compliance.NewService(runner, repos, nil),
		Audits:         au,
	}, version, httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting veritax-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	api.Close()
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func buildBlobStore(cfg *config.Config) (blob.Store, error) {
	if cfg.S3Bucket != "" {
		return blob.NewS3Store(context.Background(), blob.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	}
	return blob.NewFSStore(cfg.EvidenceDir)
}
