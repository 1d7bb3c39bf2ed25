package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/twin-verify/internal/application"
	appai "github.com/bryanwahyu/twin-verify/internal/application/ai"
	appvals "github.com/bryanwahyu/twin-verify/internal/application/validations"
	"github.com/bryanwahyu/twin-verify/internal/config"
	domanalyst "github.com/bryanwahyu/twin-verify/internal/domain/analyst"
	domverrs "github.com/bryanwahyu/twin-verify/internal/domain/validationerrors"
	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
	aiclient "github.com/bryanwahyu/twin-verify/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/twin-verify/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/twin-verify/internal/infra/db/postgres"
	"github.com/bryanwahyu/twin-verify/internal/infra/executor/twintools"
	"github.com/bryanwahyu/twin-verify/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/twin-verify/internal/infra/storage"
	"github.com/bryanwahyu/twin-verify/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres opsional)
	var (
		db        *sql.DB
		repo      domain.Repository
		errRepo   domverrs.Repository
		analystRp domanalyst.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewValidationRepository(db)
		analystRp = postgresp.NewAnalystRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewValidationRepository(db)
		errRepo = mysqlp.NewValidationErrorRepository(db)
		analystRp = mysqlp.NewAnalystRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init runner
	runner := twintools.NewRunner(
		cfg.Bridges.AlignBin,
		cfg.Bridges.EngineURL,
		cfg.Bridges.ScannerURL,
		cfg.Bridges.TwinURL,
	)

	// init services
	svc := &appvals.Service{
		Repo:      repo,
		Errors:    errRepo,
		Runner:    runner,
		Artifacts: store,
		Clock:     application.SystemClock{},
		Thresholds: appvals.Thresholds{
			DeviationTolerance: cfg.Thresholds.DeviationTolerance,
			Interactions:       cfg.Thresholds.Interactions,
			UpdateLimitSec:     cfg.Thresholds.UpdateLimitSec,
			AccuracyThreshold:  cfg.Thresholds.AccuracyThreshold,
			AccuracyTolerance:  cfg.Thresholds.AccuracyTolerance,
			FPSTarget:          cfg.Thresholds.FPSTarget,
		},
	}
	aiSvc := appai.NewService(aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model), analystRp)

	// init router
	mux := chi.NewRouter()
	if len(cfg.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.APIKeys))
		mux.Use(middleware.RequireValidTenant)
	}
	mux.Use(middleware.RateLimitMiddleware(30, 1))
	mux.Mount("/", httpserver.NewRouter(svc, aiSvc))

	// health detail terpisah, lengkap dengan cek bridge
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Bridges.EngineURL != "" {
		checkers["engine"] = &middleware.BridgeHealthChecker{Name: "engine", URL: cfg.Bridges.EngineURL}
	}
	if cfg.Bridges.ScannerURL != "" {
		checkers["scanner"] = &middleware.BridgeHealthChecker{Name: "scanner", URL: cfg.Bridges.ScannerURL}
	}
	mux.Get("/healthz", middleware.HealthHandler(checkers))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/livez", middleware.LivenessHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
