package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	appanalysis "github.com/bryanwahyu/sentinel-review/internal/application/analysis"
	"github.com/bryanwahyu/sentinel-review/internal/config"
	"github.com/bryanwahyu/sentinel-review/internal/infra/ai/gemini"
	"github.com/bryanwahyu/sentinel-review/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/sentinel-review/internal/infra/storage"
	"github.com/bryanwahyu/sentinel-review/internal/infra/uploadcache"
	"github.com/bryanwahyu/sentinel-review/internal/logging"
	"github.com/bryanwahyu/sentinel-review/internal/middleware"
)

func main() {
	// .env is optional, real env takes precedence
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging.Init(cfg.Log.Level, cfg.Log.Format)

	if cfg.Gemini.APIKey == "" {
		log.Fatal("gemini api key is required (config gemini.apiKey or GEMINI_API_KEY)")
	}

	ctx := context.Background()

	// init minio (optional)
	var store *minioStore.Store
	if cfg.Minio.Endpoint != "" {
		store, err = minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.MediaFolder,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
	}

	// init gemini client; uploads stage through the bucket when configured
	var stager gemini.Stager
	if cfg.Gemini.UseManagedStorage {
		if store == nil {
			log.Fatal("gemini.useManagedStorage requires a minio endpoint")
		}
		stager = gemini.NewBucketStager(store)
	}
	aiClient, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Temperature, cfg.Gemini.StructuredOutput, stager)
	if err != nil {
		log.Fatalf("gemini init error: %v", err)
	}

	uploads := uploadcache.NewTTL(cfg.Uploads.MaxEntries, time.Duration(cfg.Uploads.TTLMinutes)*time.Minute)

	svc := &appanalysis.Service{
		AI:            aiClient,
		Uploads:       uploads,
		Clock:         appanalysis.SystemClock{},
		FastModel:     cfg.Gemini.FastModel,
		PowerfulModel: cfg.Gemini.PowerfulModel,
	}

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "Range"},
		ExposedHeaders:   []string{"Content-Range", "Accept-Ranges", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(30, 10))
	mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	mux.Mount("/", httpserver.NewRouter(svc, store))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", addr, "structured_output", cfg.Gemini.StructuredOutput, "managed_storage", store != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
