package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/concierge-reports/internal/api"
	"github.com/ignite/concierge-reports/internal/config"
	"github.com/ignite/concierge-reports/internal/pkg/distlock"
	"github.com/ignite/concierge-reports/internal/pkg/logger"
	"github.com/ignite/concierge-reports/internal/progress"
	"github.com/ignite/concierge-reports/internal/report"
	"github.com/ignite/concierge-reports/internal/service/ingest"
	"github.com/ignite/concierge-reports/internal/storage"
	"github.com/ignite/concierge-reports/internal/watcher"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

// rulesFromConfig builds the organization rules, falling back to defaults
// for anything the config file leaves unset.
func rulesFromConfig(ic config.IngestConfig) report.Rules {
	rules := report.DefaultRules()
	if len(ic.KnownAgents) > 0 {
		rules.KnownAgents = ic.KnownAgents
	}
	if len(ic.MetricCatalog) > 0 {
		rules.MetricCatalog = ic.MetricCatalog
	}
	if len(ic.DropNames) > 0 {
		rules.DropNames = ic.DropNames
	}
	if ic.BusinessHoursStart > 0 || ic.BusinessHoursEnd > 0 {
		rules.BusinessHoursStart = ic.BusinessHoursStart
		rules.BusinessHoursEnd = ic.BusinessHoursEnd
	}
	if ic.PhoneTimeMaxHours > 0 {
		rules.PhoneTimeMaxHours = ic.PhoneTimeMaxHours
	}
	if ic.MembersMax > 0 {
		rules.MembersMax = ic.MembersMax
	}
	return rules
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	switch cfg.Logging.Level {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	}
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	host := cfg.Server.Host
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Database.
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	store := storage.New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Redis progress tracking, optional.
	var tracker *progress.Tracker
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, progress tracking disabled", "addr", cfg.Redis.Addr, "error", err.Error())
			client.Close()
		} else {
			rdb = client
			tracker = progress.NewTracker(rdb)
			defer rdb.Close()
		}
	}

	// Ingest service.
	opts := []ingest.Option{ingest.WithRules(rulesFromConfig(cfg.Ingest))}
	if tracker != nil {
		opts = append(opts, ingest.WithProgress(tracker))
	}
	if cfg.Ingest.PersistTimeoutSeconds > 0 {
		opts = append(opts, ingest.WithPersistTimeout(time.Duration(cfg.Ingest.PersistTimeoutSeconds)*time.Second))
	}
	svc := ingest.NewService(store, opts...)

	// S3 drop-folder watcher, optional.
	if cfg.Watcher.Enabled && cfg.Watcher.S3Bucket != "" {
		w, err := watcher.New(svc, watcher.Config{
			Bucket:     cfg.Watcher.S3Bucket,
			Region:     cfg.Watcher.S3Region,
			Prefix:     cfg.Watcher.S3Prefix,
			AWSProfile: cfg.Watcher.AWSProfile,
			OrgID:      cfg.Watcher.OrgID,
			Interval:   time.Duration(cfg.Watcher.IntervalMinutes) * time.Minute,
			Lock:       distlock.New(rdb, db, "watcher:"+cfg.Watcher.S3Bucket, 10*time.Minute),
		})
		if err != nil {
			log.Fatalf("Failed to start drop-folder watcher: %v", err)
		}
		w.Start()
		defer w.Stop()
		logger.Info("drop-folder watcher started",
			"bucket", cfg.Watcher.S3Bucket, "prefix", cfg.Watcher.S3Prefix)
	}

	apiServer := api.NewServer(svc, tracker)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      apiServer.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}
