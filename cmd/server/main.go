package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/orderflow-dashboard/api/handler"
	"github.com/fastygo/orderflow-dashboard/internal/config"
	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/buffer"
	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/monitor"
	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/orderflow"
	pgInfra "github.com/fastygo/orderflow-dashboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/orderflow-dashboard/internal/infrastructure/redis"
	"github.com/fastygo/orderflow-dashboard/internal/router"
	"github.com/fastygo/orderflow-dashboard/internal/services"
	"github.com/fastygo/orderflow-dashboard/internal/services/lifecycle"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	"github.com/fastygo/orderflow-dashboard/pkg/logger"
	"github.com/fastygo/orderflow-dashboard/repository/postgres"
	redisRepo "github.com/fastygo/orderflow-dashboard/repository/redis"
	billingUC "github.com/fastygo/orderflow-dashboard/usecase/billing"
	catalogUC "github.com/fastygo/orderflow-dashboard/usecase/catalog"
	dashboardUC "github.com/fastygo/orderflow-dashboard/usecase/dashboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		AppName:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	client := orderflow.New(orderflow.Options{
		BaseURL:         cfg.Upstream.BaseURL,
		Timeout:         cfg.Upstream.Timeout,
		MaxConnsPerHost: cfg.Upstream.MaxConnsPerHost,
		UserAgent:       cfg.AppName,
	}, zapLogger.Named("orderflow"))

	var dashboardOpts []dashboardUC.Option

	var pool *pgxpool.Pool
	var bufferStore *buffer.Store
	if cfg.Database.Enabled {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("history database connection failed", zap.Error(err))
		}
		manager.RegisterStop("postgres", func() { pgInfra.Close(pool, zapLogger) })

		bufferStore, err = buffer.Open(cfg.Buffer.Path, "")
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.RegisterCloser("buffer", bufferStore.Close)
	}

	var redisClient *goRedis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient.Close)
		dashboardOpts = append(dashboardOpts,
			dashboardUC.WithCache(redisRepo.NewSnapshotCache(redisClient, cfg.Redis.SnapshotTTL)))
	}

	mon := monitor.New(client, pool, redisClient, bufferStore, cfg.Dashboard.MonitorInterval, zapLogger.Named("monitor"))
	mon.Check(appCtx)
	mon.Start()
	manager.RegisterStop("monitor", mon.Stop)

	if pool != nil {
		history := postgres.NewSnapshotRepository(pool)
		processor := services.NewBufferProcessor(
			bufferStore,
			mon,
			history,
			zapLogger,
			services.ProcessorConfig{
				Interval:   cfg.Buffer.SyncInterval,
				BatchSize:  cfg.Buffer.BatchSize,
				MaxRetries: cfg.Buffer.MaxRetry,
				Retention:  cfg.Buffer.Retention(),
			},
		)
		processor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			processor.Stop(ctx)
			return nil
		})
		dashboardOpts = append(dashboardOpts,
			dashboardUC.WithHistory(history),
			dashboardUC.WithRecorder(services.NewSnapshotRecorder(processor)))
	}

	dashboard := dashboardUC.New(client, zapLogger.Named("dashboard"), dashboardOpts...)
	dashboard.Warm(appCtx)
	catalog := catalogUC.New(client, zapLogger.Named("catalog"))
	billing := billingUC.New(client, zapLogger.Named("billing"))

	scheduler := services.NewRefreshScheduler(dashboard, cfg.Dashboard.RefreshInterval, cfg.Upstream.Timeout, zapLogger)
	if scheduler != nil {
		scheduler.Start()
		manager.Register("refresh_scheduler", func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboard, ctxAdapter, zapLogger),
		Customer:  apiHandler.NewCustomerHandler(catalog, ctxAdapter, zapLogger),
		Product:   apiHandler.NewProductHandler(catalog, ctxAdapter, zapLogger),
		Order:     apiHandler.NewOrderHandler(catalog, ctxAdapter, zapLogger),
		Invoice:   apiHandler.NewInvoiceHandler(billing, ctxAdapter, zapLogger),
		Payment:   apiHandler.NewPaymentHandler(billing, ctxAdapter, zapLogger),
	}

	server := &fasthttp.Server{
		Handler:      router.New(handlers, zapLogger.Named("http")),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Bool("history", cfg.Database.Enabled),
			zap.Bool("cache", cfg.Redis.Enabled))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
