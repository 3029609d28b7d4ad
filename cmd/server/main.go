package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bizflow/backend/internal/application/catalog"
	checkoutapp "github.com/bizflow/backend/internal/application/checkout"
	crmapp "github.com/bizflow/backend/internal/application/crm"
	identityapp "github.com/bizflow/backend/internal/application/identity"
	salesapp "github.com/bizflow/backend/internal/application/sales"
	webhookapp "github.com/bizflow/backend/internal/application/webhook"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/infrastructure/auth"
	"github.com/bizflow/backend/internal/infrastructure/cache"
	"github.com/bizflow/backend/internal/infrastructure/config"
	"github.com/bizflow/backend/internal/infrastructure/event"
	"github.com/bizflow/backend/internal/infrastructure/logger"
	"github.com/bizflow/backend/internal/infrastructure/persistence"
	webhookinfra "github.com/bizflow/backend/internal/infrastructure/webhook"
	"github.com/bizflow/backend/internal/interfaces/http/handler"
	"github.com/bizflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BizFlow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	fieldValueRepo := persistence.NewGormFieldValueRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Webhook fan-out
	dispatcher := webhookinfra.NewDispatcher(subscriptionRepo, webhookinfra.Config{
		Workers:        cfg.Webhook.Workers,
		QueueSize:      cfg.Webhook.QueueSize,
		RequestTimeout: cfg.Webhook.RequestTimeout,
	}, log)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Idempotency store: Redis when enabled, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = store
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Application services
	triggers := checkoutapp.NewTriggerEvaluator(
		checkoutapp.VIPScoreRule{Threshold: cfg.Checkout.VIPScoreThreshold},
	)
	checkoutService := checkoutapp.NewCheckoutService(productRepo, txScope, triggers, dispatcher, log)
	checkoutService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		TTL:     cfg.Checkout.IdempotencyTTL,
		Enabled: cfg.Checkout.IdempotencyEnabled,
	})

	contactService := crmapp.NewContactService(contactRepo)
	opportunityService := crmapp.NewOpportunityService(opportunityRepo, fieldValueRepo, contactRepo)
	productService := catalogapp.NewProductService(productRepo)
	orderService := salesapp.NewOrderService(orderRepo, dispatcher)
	subscriptionService := webhookapp.NewSubscriptionService(subscriptionRepo)

	// Domain event bus: in-process handlers reacting to aggregate events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(catalogapp.NewLowStockHandler(log))
	eventBus.Subscribe(crmapp.NewContactStageChangedHandler(log))

	checkoutService.SetEventPublisher(eventBus)
	contactService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)

	// HTTP
	engine := router.New(router.Config{
		Handlers: router.Handlers{
			Auth:         handler.NewAuthHandler(authService),
			Checkout:     handler.NewCheckoutHandler(checkoutService),
			Contact:      handler.NewContactHandler(contactService),
			Product:      handler.NewProductHandler(productService),
			Order:        handler.NewOrderHandler(orderService, cfg.Payment.CallbackSecret),
			Opportunity:  handler.NewOpportunityHandler(opportunityService),
			Subscription: handler.NewSubscriptionHandler(subscriptionService),
			Health:       handler.NewHealthHandler(db, version),
		},
		JWTService:   jwtService,
		Logger:       log,
		AuthRequired: cfg.IsProduction(),
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
