package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"github.com/cayden0207/ctg-talents/internal/auth"
	"github.com/cayden0207/ctg-talents/internal/config"
	"github.com/cayden0207/ctg-talents/internal/engine"
	"github.com/cayden0207/ctg-talents/internal/events"
	"github.com/cayden0207/ctg-talents/internal/httpapi"
	"github.com/cayden0207/ctg-talents/internal/scheduler"
	"github.com/cayden0207/ctg-talents/internal/secrets"
	"github.com/cayden0207/ctg-talents/internal/store"
)

func main() {
	_ = godotenv.Load()

	dataDir := os.Getenv("CTG_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine process per data dir; sqlite wants a single writer.
	lock := flock.New(filepath.Join(dataDir, "ctg.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("data dir %s is already in use by another instance", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config invalid (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "ctg.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedHash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatal(err)
	}
	seeded, err := store.SeedIfEmpty(ctx, db.Pool, seedHash)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if seeded {
		log.Printf("level=info msg=\"seeded database\" admin=admin@hq.com")
	}

	signingKey, err := secrets.SigningKey()
	if err != nil {
		log.Fatalf("signing key: %v", err)
	}

	hub := events.NewHub()
	eng := &engine.Engine{
		DB:       db.Pool,
		Dispatch: &engine.Dispatcher{DB: db.Pool, Hub: hub},
	}

	deps := httpapi.Deps{
		DB:           db.Pool,
		Engine:       eng,
		Hub:          hub,
		CfgVal:       &cfgVal,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		SigningKey:   signingKey,
		LoginLimiter: auth.NewLoginLimiter(cfg.Auth.LoginsPerMinute, cfg.Auth.LoginBurst),
	}

	handler := httpapi.Chain(
		httpapi.NewMux(deps),
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	// Stale-candidate sweep; reporting only.
	go scheduler.Every(ctx, time.Duration(cfg.Reporting.SweepHours)*time.Hour, "stale-sweep", func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		threshold := time.Duration(cur.Reporting.StaleThresholdDays) * 24 * time.Hour
		n, err := eng.SweepStale(ctx, threshold, cur.Reporting.SweepLimit)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("level=info msg=\"stale sweep\" flagged=%d", n)
		}
		return nil
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("level=info msg=\"api listening\" addr=%s data_dir=%s", addr, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		log.Fatal(err)
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Printf("level=warn msg=\"shutdown\" err=%v", err)
		}
	}
}
