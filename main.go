package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloodsync/bloodsync/handlers"
	"github.com/bloodsync/bloodsync/internal/config"
	"github.com/bloodsync/bloodsync/internal/database"
	"github.com/bloodsync/bloodsync/internal/document/service"
	"github.com/bloodsync/bloodsync/internal/drives"
	"github.com/bloodsync/bloodsync/internal/location"
	"github.com/bloodsync/bloodsync/internal/requests"
	"github.com/bloodsync/bloodsync/internal/storage"
	"github.com/bloodsync/bloodsync/internal/users"
	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/bloodsync/bloodsync/pkg/metrics"
	"github.com/bloodsync/bloodsync/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Configure(cfg.Log.Format, "bloodsync")
	logger.Infof("config loaded: backend=%s mongo=%v redis=%v backup=%v", cfg.Storage.Backend, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Backup.Enabled)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so the rate limiter and location cache can use it
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err == nil {
			rdb = client
			logger.Infof("connected to Redis at %s", addr)
		} else {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = client.Close()
		}
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Optional global rate limiter (per client IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter enabled (redis, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter enabled (memory, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	// Data document store
	var store *service.Service
	var mongoClient *mongo.Client
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, database.DefaultRetry)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		col := mongoClient.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		store = service.NewMongoService(col)
		logger.Infof("using MongoDB document store (%s.%s)", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	case config.BackendMemory:
		store = service.NewMemoryService()
		logger.Warnf("using in-memory document store; data is lost on restart")
	default:
		store = service.NewFileService(cfg.Storage.DataFile)
		logger.Infof("using file document store at %s", cfg.Storage.DataFile)
	}

	if cfg.Backup.Enabled {
		backup, err := storage.NewMinIOStorage(storage.MinIOConfigFrom(cfg.Backup))
		if err != nil {
			logger.Warnf("snapshot backups disabled: %v", err)
		} else {
			store.SetBackup(backup)
			logger.Infof("snapshot backups enabled (bucket %s)", cfg.Backup.Bucket)
		}
	}

	resolver := location.NewClient(cfg.Location.BaseURL, cfg.Location.Timeout)
	if rdb != nil {
		resolver.WithCache(location.NewRedisCache(rdb, cfg.Location.CacheTTL))
	}

	usersSvc := users.NewService(store, resolver, cfg.Auth.BcryptCost)
	drivesSvc := drives.NewService(store, cfg.Drives)
	requestsSvc := requests.NewService(store)
	if !cfg.Drives.EnforceCapacity {
		logger.Warnf("drive capacity enforcement is disabled")
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 only when the document store can be read
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		_, err := store.Snapshot(rctx)
		deps["storage"] = err == nil
		if err != nil {
			ready = false
		}

		// Redis is required only when the limiter depends on it
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = rdb != nil && rdb.Ping(rctx).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	api := r.Group("/api")
	handlers.NewAuthHandler(usersSvc).Register(api)
	handlers.NewDriveHandler(drivesSvc, usersSvc).Register(api)
	handlers.NewRequestHandler(requestsSvc).Register(api)
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting bloodsync on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	store.Wait()
}
