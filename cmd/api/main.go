package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/api"
	"github.com/failllix/freecodecamp-project-exercisetracker/internal/config"
	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
	"github.com/failllix/freecodecamp-project-exercisetracker/internal/persistence/memory"
	mongostore "github.com/failllix/freecodecamp-project-exercisetracker/internal/persistence/mongo"
	pgstore "github.com/failllix/freecodecamp-project-exercisetracker/internal/persistence/postgres"
	httptransport "github.com/failllix/freecodecamp-project-exercisetracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repo domain.Repository
	switch cfg.StorageBackend {
	case "mongo":
		connectCtx, connectCancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
		connectCancel()
		if err != nil {
			log.Fatalf("failed to connect to mongodb: %v", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongodb disconnect failed: %v", err)
			}
		}()
		repo = mongostore.NewRepository(client.Database(cfg.MongoDatabase))
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		repo = pgstore.NewRepository(pool)
	case "memory":
		repo = memory.NewRepository()
	default:
		log.Fatalf("unknown storage backend %q", cfg.StorageBackend)
	}

	countMode, err := domain.ParseCountMode(cfg.LogCountMode)
	if err != nil {
		log.Fatalf("invalid LOG_COUNT_MODE: %v", err)
	}

	service := domain.NewService(repo, countMode)

	handler := api.NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Allow-all CORS, matching the original tracker
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}, logger(cors(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("exercise-tracker listening on %s (backend: %s)", cfg.HTTPAddress, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
