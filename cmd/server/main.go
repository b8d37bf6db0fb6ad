package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/smartshop/backend/internal/application/catalog"
	appcredit "github.com/smartshop/backend/internal/application/credit"
	appidentity "github.com/smartshop/backend/internal/application/identity"
	appordering "github.com/smartshop/backend/internal/application/ordering"
	"github.com/smartshop/backend/internal/infrastructure/auth"
	"github.com/smartshop/backend/internal/infrastructure/config"
	"github.com/smartshop/backend/internal/infrastructure/logger"
	"github.com/smartshop/backend/internal/infrastructure/notification"
	"github.com/smartshop/backend/internal/infrastructure/persistence"
	"github.com/smartshop/backend/internal/interfaces/http/handler"
	"github.com/smartshop/backend/internal/interfaces/http/middleware"
	"github.com/smartshop/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

// maxBodyBytes caps request bodies at 1 MiB
const maxBodyBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Database
	gormLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLevel)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close database", zap.Error(cerr))
		}
	}()
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	creditRepo := persistence.NewGormCreditRecordRepository(db.DB)

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, rerr := auth.NewRedisTokenBlacklist(cfg.Redis); rerr != nil {
		log.Warn("redis unavailable, falling back to in-memory token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(rerr))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		log.Info("redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
		blacklist = redisBlacklist
	}

	// Application services
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, appidentity.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	productService := appcatalog.NewProductService(productRepo, log)
	orderService := appordering.NewOrderService(orderRepo, productRepo, userRepo, creditRepo, log)
	creditService := appcredit.NewCreditService(creditRepo, orderRepo, cfg.Credit.DueSoonWindowDays, log)
	notifier := notification.NewLogNotifier(log)
	reminderService := appcredit.NewReminderService(creditRepo, notifier, cfg.Credit.DueSoonWindowDays, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	productHandler := handler.NewProductHandler(productService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	creditHandler := handler.NewCreditHandler(creditService, log)
	reminderHandler := handler.NewReminderHandler(reminderService, log)
	systemHandler := handler.NewSystemHandler(cfg, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("trusted proxies: %w", err)
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(maxBodyBytes))

	engine.GET("/health", healthHandler(db, log))

	// Authentication applies to the whole API surface except the public
	// auth endpoints and system probes.
	engine.Use(middleware.JWT(jwtService, blacklist, log, middleware.JWTConfig{
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
	}))

	shopkeeperOnly := middleware.RequireRole("shopkeeper")

	// Brute force protection on the credential endpoints
	authLimiter := middleware.NewRateLimiter(20, time.Minute)
	authLimit := middleware.AuthRateLimit(authLimiter)

	authGroup := router.NewGroup("auth", "/auth")
	authGroup.POST("/register", authLimit, authHandler.Register)
	authGroup.POST("/login", authLimit, authHandler.Login)
	authGroup.POST("/refresh", authLimit, authHandler.RefreshToken)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.GetCurrentUser)
	authGroup.PUT("/password", authHandler.ChangePassword)

	productGroup := router.NewGroup("catalog", "/products")
	productGroup.GET("", productHandler.List)
	productGroup.GET("/categories", productHandler.ListCategories)
	productGroup.GET("/:id", productHandler.GetByID)
	productGroup.POST("", shopkeeperOnly, productHandler.Create)
	productGroup.PUT("/:id", shopkeeperOnly, productHandler.Update)
	productGroup.PUT("/:id/stock", shopkeeperOnly, productHandler.AdjustStock)
	productGroup.POST("/:id/activate", shopkeeperOnly, productHandler.Activate)
	productGroup.POST("/:id/deactivate", shopkeeperOnly, productHandler.Deactivate)
	productGroup.DELETE("/:id", shopkeeperOnly, productHandler.Delete)

	orderGroup := router.NewGroup("ordering", "/orders")
	orderGroup.POST("", middleware.RequireRole("customer"), orderHandler.Place)
	orderGroup.GET("/mine", orderHandler.ListMine)
	orderGroup.GET("/received", shopkeeperOnly, orderHandler.ListReceived)
	orderGroup.GET("/:id", orderHandler.Get)
	orderGroup.GET("/:id/credit", creditHandler.GetByOrder)
	orderGroup.POST("/:id/confirm", shopkeeperOnly, orderHandler.Confirm)
	orderGroup.POST("/:id/deliver", shopkeeperOnly, orderHandler.Deliver)
	orderGroup.POST("/:id/cancel", orderHandler.Cancel)

	creditGroup := router.NewGroup("credit", "/credit")
	creditGroup.GET("/mine", creditHandler.ListMine)
	creditGroup.GET("/shop", shopkeeperOnly, creditHandler.ListForShop)
	creditGroup.GET("/overdue", shopkeeperOnly, creditHandler.ListOverdue)
	creditGroup.GET("/due-soon", shopkeeperOnly, creditHandler.ListDueSoon)
	creditGroup.GET("/summary", shopkeeperOnly, creditHandler.Summary)
	creditGroup.GET("/:id", creditHandler.Get)
	creditGroup.POST("/:id/payments", shopkeeperOnly, creditHandler.Pay)

	reminderGroup := router.NewGroup("reminders", "/reminders")
	reminderGroup.Use(shopkeeperOnly)
	reminderGroup.GET("", reminderHandler.List)
	reminderGroup.POST("/:id/send", reminderHandler.Send)
	reminderGroup.POST("/send-all", reminderHandler.SendAll)

	systemGroup := router.NewGroup("system", "/system")
	systemGroup.GET("/info", systemHandler.Info)
	systemGroup.GET("/ping", systemHandler.Ping)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(authGroup, productGroup, orderGroup, creditGroup, reminderGroup, systemGroup).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env))
		if serr := srv.ListenAndServe(); serr != nil && serr != http.ErrServerClosed {
			errCh <- serr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// healthHandler reports service and database health
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "down",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "up",
		})
	}
}
