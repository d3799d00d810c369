package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dairyflats/aerobook/internal/api"
	"github.com/dairyflats/aerobook/internal/cache"
	"github.com/dairyflats/aerobook/internal/events"
	"github.com/dairyflats/aerobook/internal/ports"
	"github.com/dairyflats/aerobook/internal/reference"
	"github.com/dairyflats/aerobook/internal/repository"
	"github.com/dairyflats/aerobook/internal/service"
	"github.com/dairyflats/aerobook/internal/utils"
	"github.com/dairyflats/aerobook/pkg/config"
	"github.com/dairyflats/aerobook/pkg/health"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config   *config.Config
	server   *http.Server
	db       *pgxpool.Pool
	cache    *cache.RedisCache
	producer *events.Producer
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	CatalogService ports.CatalogService
	BookingService ports.BookingService
}

func (a *App) setupServices() Services {
	catalogRepo := repository.NewCatalogRepository(a.db)
	bookingRepo := repository.NewBookingRepository(a.db, reference.NewGenerator())

	var catalogCache ports.CatalogCache
	if a.config.Redis.Addr != "" {
		a.cache = cache.NewRedisCache(
			a.config.Redis.Addr,
			a.config.Redis.Password,
			a.config.Redis.DB,
			a.config.Redis.AirportsTTL,
		)
		catalogCache = a.cache
	}

	var producer ports.EventProducer
	if len(a.config.Kafka.Brokers) > 0 {
		a.producer = events.NewProducer(a.config.Kafka.Brokers, a.config.Kafka.BookingTopic)
		producer = a.producer
	}

	return Services{
		CatalogService: service.NewItineraryService(catalogRepo, catalogCache),
		BookingService: service.NewBookingService(bookingRepo, catalogRepo, producer),
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := http.NewServeMux()
	const versionPrefix = "/v1"

	router.HandleFunc(versionPrefix+"/health", health.HealthGet())

	router.HandleFunc(versionPrefix+"/airports", utils.AllowedMethods(
		api.AirportsHandler(services.CatalogService),
		"GET",
	))

	router.HandleFunc(versionPrefix+"/itineraries", utils.AllowedMethods(
		api.ItinerariesHandler(services.CatalogService),
		"GET",
	))

	bookingHandler := utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.BookingHandler(services.BookingService),
			"application/json",
		),
		"POST", "GET", "DELETE",
	)
	router.HandleFunc(versionPrefix+"/bookings", bookingHandler)

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("Starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Printf("producer close failed: %v", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("cache close failed: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
