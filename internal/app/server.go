// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"sokohub-service/internal/config"
	"sokohub-service/internal/db"
	productHandler "sokohub-service/internal/handlers/product"
	searchHandler "sokohub-service/internal/handlers/search"
	subscriptionHandler "sokohub-service/internal/handlers/subscription"
	tierHandler "sokohub-service/internal/handlers/tier"
	"sokohub-service/internal/middleware"
	"sokohub-service/internal/repository/postgres"
	"sokohub-service/internal/service/catalog"
	"sokohub-service/internal/service/lifecycle"
	productService "sokohub-service/internal/service/product"
	"sokohub-service/internal/service/scheduler"
	searchService "sokohub-service/internal/service/search"
	"sokohub-service/internal/service/tierpolicy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	stopScheduler context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Repositories -----
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	tierRepo := postgres.NewTierRepository(pool)

	// ----- Tier catalog -----
	tierCatalog := catalog.NewTierCatalog(tierRepo, logger)
	if err := tierCatalog.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load tier catalog: %w", err)
	}

	// ----- Lifecycle -----
	publisher := lifecycle.NewRedisPublisher(
		redisClient,
		s.cfg.EventChannel,
		s.cfg.EventRetries,
		s.cfg.EventRetryDelay,
		logger,
	)
	manager := lifecycle.NewManager(subscriptionRepo, tierCatalog, publisher, lifecycle.Config{
		GraceWindow:       s.cfg.GraceWindow,
		TransitionRetries: s.cfg.TransitionRetries,
	}, logger)

	// ----- Ranking / search -----
	resolver := tierpolicy.NewResolver(subscriptionRepo, tierCatalog, tierpolicy.Config{
		GraceWindow: s.cfg.GraceWindow,
		GraceDecay:  s.cfg.GraceDecay,
	}, logger)
	selector := searchService.NewCandidateSelector(productRepo)
	ranking := searchService.NewRankingEngine(resolver, searchService.RankingConfig{
		RecencyHalfLife: s.cfg.RecencyHalfLife,
	}, logger)
	searchSvc := searchService.NewService(selector, ranking, s.cfg.SearchTimeout, logger)

	productSvc := productService.NewService(productRepo, logger)

	// ----- Lifecycle scheduler -----
	lifecycleScheduler := scheduler.NewScheduler(subscriptionRepo, manager, scheduler.Config{
		Interval:       s.cfg.SchedulerInterval,
		MaxConcurrency: s.cfg.SchedulerWorkers,
	}, logger)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	s.stopScheduler = stopScheduler
	go lifecycleScheduler.Start(schedulerCtx)

	// ----- Handlers -----
	searchHandlerInst := searchHandler.NewSearchHandler(searchSvc)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(manager, logger)
	productHandlerInst := productHandler.NewProductHandler(productSvc)
	tierHandlerInst := tierHandler.NewTierHandler(tierCatalog)

	// ----- Middlewares -----
	billingAuth := middleware.NewBillingAuthMiddleware(s.cfg.BillingJWTSecret, s.cfg.BillingIssuer)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		SearchHandler:       searchHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		ProductHandler:      productHandlerInst,
		TierHandler:         tierHandlerInst,
		BillingAuth:         billingAuth,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops the background scheduler.
func (s *Server) Shutdown() {
	if s.stopScheduler != nil {
		s.stopScheduler()
	}
}
