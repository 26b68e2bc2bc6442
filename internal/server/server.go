package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"marketplace-geo/internal/config"
	"marketplace-geo/internal/database"
	"marketplace-geo/internal/discovery"
	custommiddleware "marketplace-geo/internal/middleware"
	"marketplace-geo/internal/repository"
	"marketplace-geo/internal/service"
	"marketplace-geo/internal/shipping"
	"marketplace-geo/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewRedisClient connects to the cache used for rate limiting and shipping rules
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, rdb *redis.Client) (*Server, error) {
	router, err := newRouter(cfg, logger, db, rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		Server: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:           router,
			IdleTimeout:       time.Minute,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      requestTimeout + 5*time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
	}, nil
}

func newRouter(cfg *config.Config, logger *zap.Logger, db database.Service, rdb *redis.Client) (http.Handler, error) {
	defaultCost, err := decimal.NewFromString(cfg.Shipping.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("invalid shipping default cost %q: %w", cfg.Shipping.DefaultCost, err)
	}

	router := chi.NewRouter()
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.DefaultMiddlewareStack(requestTimeout)...)
	router.Use(custommiddleware.LoggingMiddleware(logger.Named("http")))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", healthHandler(db, rdb))

	// Initialize repositories
	sqlDB := db.DB()
	branchRepo := repository.NewBranchRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	stockRepo := repository.NewStockRepository(sqlDB)
	ruleRepo := repository.NewCachedShippingRuleRepository(
		repository.NewShippingRuleRepository(sqlDB),
		rdb,
		time.Duration(cfg.Shipping.RuleCacheTTLSeconds)*time.Second,
		logger.Named("rule_cache"),
	)

	// Core
	engine := discovery.NewEngine(logger)
	resolver := shipping.NewResolver(defaultCost, logger)

	// Initialize services
	discoveryService := service.NewDiscoveryService(
		branchRepo, productRepo, categoryRepo, stockRepo, ruleRepo,
		engine, resolver,
		service.RadiusLimits{
			DefaultKm: cfg.Discovery.DefaultRadiusKm,
			MaxKm:     cfg.Discovery.MaxRadiusKm,
		},
		logger.Named("discovery_service"),
	)
	shippingService := service.NewShippingService(branchRepo, ruleRepo, resolver, logger.Named("shipping_service"))

	// Initialize handlers
	discoveryHandler := transport.NewDiscoveryHandler(discoveryService, logger)
	shippingHandler := transport.NewShippingHandler(shippingService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	merchantMiddleware := custommiddleware.RequireMerchant(logger)
	rateLimit := custommiddleware.RateLimitMiddleware(rdb, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		KeyPrefix:         "ratelimit:api",
	}, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		discoveryHandler.RegisterRoutes(r)
		shippingHandler.RegisterRoutes(r, authMiddleware, merchantMiddleware)
	})

	return router, nil
}

func healthHandler(db database.Service, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		status := http.StatusOK
		dbHealth := db.Health()
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		redisHealth := map[string]string{"status": "up"}
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis only backs rate limiting and caching, so the API stays up
			redisHealth = map[string]string{"status": "down", "error": err.Error()}
		}

		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"status":   http.StatusText(status),
			"database": dbHealth,
			"redis":    redisHealth,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
