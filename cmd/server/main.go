package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	depositapp "github.com/propmgmt/backend/internal/application/deposit"
	feeapp "github.com/propmgmt/backend/internal/application/fee"
	incomeapp "github.com/propmgmt/backend/internal/application/income"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/cache"
	"github.com/propmgmt/backend/internal/infrastructure/config"
	"github.com/propmgmt/backend/internal/infrastructure/logger"
	"github.com/propmgmt/backend/internal/infrastructure/persistence"
	"github.com/propmgmt/backend/internal/infrastructure/scheduler"
	"github.com/propmgmt/backend/internal/infrastructure/telemetry"
	"github.com/propmgmt/backend/internal/interfaces/http/handler"
	"github.com/propmgmt/backend/internal/interfaces/http/middleware"
	"github.com/propmgmt/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			Property Management API
//	@version		1.0
//	@description	Property fee billing, deposits and daily income
//	@BasePath		/api/v1

const appVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting property management backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, appVersion, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQueryThreshold))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := tp.InstrumentGorm(db.DB); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	// Repositories
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	feeItemRepo := persistence.NewGormFeeItemRepository(db.DB)
	feeRateRepo := persistence.NewGormFeeRateRepository(db.DB)
	feeRecordRepo := persistence.NewGormFeeRecordRepository(db.DB)
	meterReadingRepo := persistence.NewGormMeterReadingRepository(db.DB)
	depositRepo := persistence.NewGormDepositRepository(db.DB)
	incomeRepo := persistence.NewGormDailyIncomeRepository(db.DB)

	runLock, err := cache.NewRunLockFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to create bill run lock", zap.Error(err))
	}
	defer func() {
		if err := runLock.Close(); err != nil {
			log.Error("Error closing bill run lock", zap.Error(err))
		}
	}()

	// Application services
	outstandingService := feeapp.NewOutstandingService(assetRepo, feeItemRepo, feeRateRepo, feeRecordRepo, log)
	billGenerator := feeapp.NewBillGenerator(
		assetRepo,
		feeRateRepo,
		feeRecordRepo,
		outstandingService,
		runLock,
		shared.RunLockConfig{TTL: cfg.Scheduler.RunLockTTL, Enabled: true},
		log,
	)
	recordService := feeapp.NewFeeRecordService(feeRecordRepo, log)
	rateService := feeapp.NewRateService(feeItemRepo, feeRateRepo, log)
	meterService := feeapp.NewMeterService(assetRepo, feeItemRepo, feeRateRepo, meterReadingRepo, cfg.Billing.WaterUnitPrice, log)
	depositService := depositapp.NewDepositService(depositRepo, assetRepo, log)
	incomeService := incomeapp.NewDailyIncomeService(incomeRepo, assetRepo, incomeapp.Prices{
		AccessCard: cfg.Billing.AccessCardUnitPrice,
		FireWater:  cfg.Billing.FireWaterUnitPrice,
	}, log)

	billingScheduler, err := scheduler.NewBillingScheduler(cfg.Scheduler, billGenerator, log)
	if err != nil {
		log.Fatal("Failed to create billing scheduler", zap.Error(err))
	}
	if err := billingScheduler.Start(); err != nil {
		log.Fatal("Failed to start billing scheduler", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
		Provider:    tp.Provider(),
	})...)
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.SecureWithConfig(middleware.SecurityConfigForEnv(cfg.App.Env)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	router.Setup(engine, router.Handlers{
		Fee:     handler.NewFeeHandler(outstandingService, billGenerator, recordService, rateService, meterService),
		Deposit: handler.NewDepositHandler(depositService),
		Income:  handler.NewIncomeHandler(incomeService),
		System:  handler.NewSystemHandler(cfg.App.Name, appVersion, db, billingScheduler),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := billingScheduler.Stop(ctx); err != nil {
		log.Error("Billing scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Tracer provider did not flush", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
