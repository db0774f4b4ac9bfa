package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/freshmart/storefront/internal/cart/cache"
	"github.com/freshmart/storefront/internal/cart/engine"
	"github.com/freshmart/storefront/internal/cart/gateway"
	"github.com/freshmart/storefront/internal/catalog"
	"github.com/freshmart/storefront/internal/checkout"
	sfhttp "github.com/freshmart/storefront/internal/http"
	"github.com/freshmart/storefront/internal/identity"
	"github.com/freshmart/storefront/internal/notify"
	orderrepo "github.com/freshmart/storefront/internal/order/repository"
	"github.com/freshmart/storefront/pkg/config"
	"github.com/freshmart/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("storefront exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Cart store
	mongoDB, err := gateway.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer disconnectMongo(mongoDB)

	mongoGW := gateway.NewMongoGateway(mongoDB)
	if err := mongoGW.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}
	cartGW := gateway.NewBreakerGateway(mongoGW)
	log.Info("connected to cart store", "uri", cfg.MongoURI)

	// Cart read cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	cartCache := cache.NewRedisCache(redisClient)
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	// Catalog
	catalogStore, err := catalog.NewStore(cfg.CatalogDBPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalogStore.Close()
	if err := catalogStore.RunMigrations(cfg.CatalogMigrationsDir); err != nil {
		return fmt.Errorf("catalog migrations: %w", err)
	}

	// Order store
	cred := &orderrepo.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDBName,
		MigrationsDirPath: cfg.OrderMigrationsPath,
	}
	orders, err := orderrepo.NewRepository(cred)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer orders.Close()
	if err := orders.RunMigrations(cred); err != nil {
		return fmt.Errorf("order migrations: %w", err)
	}
	log.Info("connected to order store", "host", cfg.PostgresHost)

	// Notifications
	var notifier notify.Notifier = notify.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := notify.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		defer publisher.Close()
		notifier = publisher
		log.Info("publishing notifications", "topic", cfg.KafkaTopic)
	}

	sessions := identity.NewSessions()
	cartEngine := engine.NewEngine(cartGW, catalogStore, cartCache, notifier)
	orchestrator := checkout.NewOrchestrator(cartEngine, orders, notifier, cfg.DeliveryFee, cfg.TaxRate)

	router := sfhttp.NewRouter(sfhttp.RouterDeps{
		Sessions:       sessions,
		Cart:           sfhttp.NewCartHandler(cartEngine, cfg.RequestTimeout),
		Checkout:       sfhttp.NewCheckoutHandler(orchestrator, cfg.RequestTimeout),
		Orders:         sfhttp.NewOrdersHandler(orders, cfg.RequestTimeout),
		Products:       sfhttp.NewProductHandler(catalogStore, cfg.RequestTimeout),
		Session:        sfhttp.NewSessionHandler(sessions),
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	events, unsubscribe := sessions.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cartEngine.Run(gctx, events)
		return nil
	})

	g.Go(func() error {
		log.Info("storefront listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func disconnectMongo(db *mongo.Database) {
	if err := db.Client().Disconnect(context.Background()); err != nil {
		slog.Warn("mongo disconnect failed", "err", err)
	}
}
