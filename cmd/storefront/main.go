package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Halwa/internal/cart"
	"Halwa/internal/storefront"
	"Halwa/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	_ = godotenv.Load()

	cfg, err := storefront.LoadConfig()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	factory, err := buildStorageFactory(cfg)
	if err != nil {
		log.Fatal("storage init failed", zap.Error(err), zap.String("backend", cfg.Storage))
	}
	log.Info("storage ready", zap.String("backend", cfg.Storage))

	reg := prometheus.NewRegistry()
	cartMetrics := storefront.NewCartMetrics(reg)

	carts := storefront.NewManager(factory,
		cart.WithLogger(log),
		cart.WithDefaultPrice(cfg.DefaultPrice),
	)
	carts.OnCreate = cartMetrics.Observe

	s := &storefront.Server{
		Carts:  carts,
		Tokens: storefront.NewTokenMaker(cfg.SessionSecret),
		Probe:  factory(cart.DefaultKey),
		Log:    log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStorageFactory(cfg storefront.Config) (storefront.StorageFactory, error) {
	switch cfg.Storage {
	case "memory":
		return func(string) cart.Storage { return cart.NewMemStorage() }, nil

	case "file":
		return func(key string) cart.Storage {
			return cart.NewFileStorage(cfg.DataDir, key)
		}, nil

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return func(key string) cart.Storage {
			return cart.NewRedisStorage(client, key)
		}, nil

	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cart.InitPostgres(ctx, db); err != nil {
			return nil, err
		}

		return func(key string) cart.Storage {
			return cart.NewPostgresStorage(db, key)
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
