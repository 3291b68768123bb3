package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/container"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/internal/router"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open credential store")
	}
	defer closeStore()

	// Redis profile cache
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.RedisPing(ctx, rdb, 2*time.Second); err != nil {
			logger.WithError(err).Warn("redis unavailable; profile cache disabled")
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
		}
	}

	// GCS media host
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to init GCS client")
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	} else {
		logger.Warn("GCS_BUCKET not set; uploads will fail")
	}

	// Elasticsearch user directory
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = helpers.ESPing(pingCtx, es)
			cancel()
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; user search disabled")
		} else {
			container.SetES(es)
		}
	}

	// RabbitMQ notifications
	if cfg.RabbitMQURL != "" {
		q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; notifications disabled")
		} else {
			defer q.Close()
			container.SetRabbitPub(q)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMetrics(reg)
	container.SetJWT(helpers.NewJWTManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry))
	container.SetCookies(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}
	r.GET("/healthz", healthz)

	// Registry: auto-register modules using container
	registry := router.NewRegistry(r)
	router.InitModules(registry)
	registry.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithField("driver", cfg.StoreDriver).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

func healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := container.PingStore(ctx); err != nil {
		container.GetLogger().WithError(err).Warn("health check failed")
		response.Error(c, http.StatusServiceUnavailable, "store unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}

// openStore connects the configured credential store, registers it in the
// container and returns its close function.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, err
		}
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		container.SetUserRepo(pginfra.NewUserRepository(pool))
		container.SetStorePing(pool.Ping)
		return pool.Close, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		repo := mongodb.NewUserRepository(client.Database(cfg.MongoDatabase))
		if err := mongodb.EnsureIndexes(ctx, repo.Coll()); err != nil {
			closeFn()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		container.SetUserRepo(repo)
		container.SetStorePing(func(ctx context.Context) error { return client.Ping(ctx, nil) })
		return closeFn, nil

	case config.DriverMemory:
		logger.Warn("memory store selected; accounts are lost on restart")
		container.SetUserRepo(memory.NewUserRepository())
		return func() {}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
