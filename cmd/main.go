package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yourstruly-priyanshu/rentify/internal/cache"
	"github.com/yourstruly-priyanshu/rentify/internal/catalog"
	"github.com/yourstruly-priyanshu/rentify/internal/events"
	rentifyhttp "github.com/yourstruly-priyanshu/rentify/internal/http"
	"github.com/yourstruly-priyanshu/rentify/internal/identity"
	"github.com/yourstruly-priyanshu/rentify/internal/repository"
	"github.com/yourstruly-priyanshu/rentify/internal/service"
	"github.com/yourstruly-priyanshu/rentify/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "rentify")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	remoteTimeout := getEnvDuration("REMOTE_TIMEOUT", 5*time.Second)
	requestTimeout := getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)

	ctx := context.Background()

	// Set up MongoDB connection and indexes
	mongoDB, err := repository.Bootstrap(ctx, repository.MongoConfig{
		URI:            mongoURI,
		Database:       mongoDBName,
		ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MaxPoolSize:    getEnvUint("MONGO_MAX_POOL_SIZE", 64),
		MinPoolSize:    getEnvUint("MONGO_MIN_POOL_SIZE", 4),
	})
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)
	logger.Info("connected to MongoDB", zap.String("uri", mongoURI))

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB, logger)
	productCatalog := catalog.NewCatalog(mongoDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	logger.Info("Redis ping succeeded", zap.String("addr", redisAddr))

	cartCache := cache.NewRedisCache(redisClient)

	publisher := events.NewKafkaPublisher(kafkaBrokers...)
	defer publisher.Close()

	provider := identity.NewProvider()

	cartStore := store.NewMemoryStore()
	syncer := service.NewCartSyncService(cartStore, cartRepo, cartCache, provider, logger, remoteTimeout)
	defer syncer.Close()

	checkout := service.NewCheckoutService(cartStore, syncer, cartRepo, orderRepo, cartCache, publisher, provider, logger)

	router := rentifyhttp.NewRouter(syncer, checkout, productCatalog, orderRepo, provider, requestTimeout)

	server := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("rentify listening", zap.String("port", httpPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// let in-flight remote cart writes drain before disconnecting
	syncer.Flush()

	logger.Info("rentify stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
