package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-retail-service/config"
	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/internal/store/memory"
	pgstore "github.com/fekuna/omnipos-retail-service/internal/store/postgres"
	"github.com/fekuna/omnipos-retail-service/pkg/broker"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/search"
	"github.com/fekuna/omnipos-retail-service/pkg/tracing"

	catH "github.com/fekuna/omnipos-retail-service/internal/catalog/handler"
	catRepoPkg "github.com/fekuna/omnipos-retail-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-retail-service/internal/catalog/usecase"

	stockH "github.com/fekuna/omnipos-retail-service/internal/stock/handler"
	stockRepoPkg "github.com/fekuna/omnipos-retail-service/internal/stock/repository"
	stockUCPkg "github.com/fekuna/omnipos-retail-service/internal/stock/usecase"

	saleH "github.com/fekuna/omnipos-retail-service/internal/sale/handler"
	saleListenerPkg "github.com/fekuna/omnipos-retail-service/internal/sale/listener"
	saleRepoPkg "github.com/fekuna/omnipos-retail-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-retail-service/internal/sale/usecase"

	reportH "github.com/fekuna/omnipos-retail-service/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-retail-service/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-retail-service/internal/report/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type repositories struct {
	catalog catalog.Repository
	stock   stock.Repository
	sale    sale.Repository
	report  report.Repository
	tx      store.TxManager
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(ctx, &tracing.Config{
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
		})
		if err != nil {
			appLogger.Warn("Could not start tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				_ = tp.Shutdown(shutdownCtx)
			}()
			appLogger.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
		}
	}

	// 4. Storage
	var repos repositories
	switch cfg.Server.StorageDriver {
	case "memory":
		s := memory.NewStore()
		repos = repositories{
			catalog: memory.NewCatalogRepository(s),
			stock:   memory.NewStockRepository(s),
			sale:    memory.NewSaleRepository(s),
			report:  memory.NewReportRepository(s),
			tx:      memory.NewTxManager(s),
		}
		appLogger.Warn("Using in-memory storage, data is lost on restart")
	case "postgres":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := pgstore.EnsureSchema(ctx, db); err != nil {
				appLogger.Fatal("Could not apply schema", zap.Error(err))
			}
		}
		repos = repositories{
			catalog: catRepoPkg.NewPGRepository(db),
			stock:   stockRepoPkg.NewPGRepository(db),
			sale:    saleRepoPkg.NewPGRepository(db),
			report:  reportRepoPkg.NewPGRepository(db),
			tx:      pgstore.NewTxManager(db),
		}
	default:
		appLogger.Fatal("Unknown storage driver", zap.String("driver", cfg.Server.StorageDriver))
	}

	// 5. Redis: report cache and sale request claims
	var reportCache report.Cache
	var requestLocker saleListenerPkg.Locker
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis (reports will not be cached)", zap.Error(err))
		} else {
			defer redisClient.Close()
			reportCache = redisClient
			requestLocker = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Kafka
	var publisher event.Publisher = event.Nop{}
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		publisher = producer

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RequestTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("requests", cfg.Kafka.RequestTopic),
			zap.String("events", cfg.Kafka.EventsTopic),
		)
	}

	// 7. Elasticsearch
	var productSearch catalog.SearchRepository
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		} else {
			productSearch = catRepoPkg.NewESRepository(esClient)
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(repos.catalog, productSearch, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(repos.stock, repos.catalog, repos.tx, publisher, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(repos.sale, repos.catalog, stockUC, repos.tx, reportCache, publisher, cfg.Sales.TxnNumberRetries, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(repos.report, reportCache, cfg.Sales.TopSellersLimit, cfg.Sales.ReportCacheTTL, appLogger)

	// 9. Start Listener
	if kafkaConsumer != nil {
		saleListener := saleListenerPkg.NewSaleListener(kafkaConsumer, saleUC, requestLocker, publisher,
			appLogger.With(zap.String("component", "sale-listener")))
		go saleListener.Start(ctx)
	}

	// 10. Initialize Handlers
	catHandler := catH.NewCatalogHandler(catUC, appLogger)
	stockHandler := stockH.NewStockHandler(stockUC, appLogger)
	saleHandler := saleH.NewSaleHandler(saleUC, appLogger)
	reportHandler := reportH.NewReportHandler(reportUC, appLogger)

	// 11. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(auth.UnaryInterceptor(cfg.JWT.SecretKey, appLogger)),
	)

	// Register Services
	catH.Register(grpcServer, catHandler)
	stockH.Register(grpcServer, stockHandler)
	saleH.Register(grpcServer, saleHandler)
	reportH.Register(grpcServer, reportHandler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	appLogger.Info("Starting gRPC server", zap.String("port", port), zap.String("storage", cfg.Server.StorageDriver))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
