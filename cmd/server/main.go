package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/paydesk/backend/internal/application/billing"
	expenseapp "github.com/paydesk/backend/internal/application/expense"
	identityapp "github.com/paydesk/backend/internal/application/identity"
	notificationapp "github.com/paydesk/backend/internal/application/notification"
	"github.com/paydesk/backend/internal/infrastructure/auth"
	"github.com/paydesk/backend/internal/infrastructure/config"
	"github.com/paydesk/backend/internal/infrastructure/event"
	"github.com/paydesk/backend/internal/infrastructure/gateway"
	"github.com/paydesk/backend/internal/infrastructure/logger"
	"github.com/paydesk/backend/internal/infrastructure/persistence"
	"github.com/paydesk/backend/internal/infrastructure/scheduler"
	"github.com/paydesk/backend/internal/interfaces/http/handler"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
	"github.com/paydesk/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting PayDesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := persistence.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	// Repositories
	userRepo := persistence.NewGormUserRepository(db)
	roleRepo := persistence.NewGormRoleRepository(db)
	companyRepo := persistence.NewGormCompanyRepository(db)
	departmentRepo := persistence.NewGormDepartmentRepository(db)
	paymentRepo := persistence.NewGormPaymentRequestRepository(db)
	expenseRepo := persistence.NewGormExpenseRequestRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	numberGenerator := persistence.NewGormRequestNumberGenerator(db)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtManager, log)
	userService := identityapp.NewUserService(userRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	companyService := identityapp.NewCompanyService(companyRepo, departmentRepo, log)
	notificationService := notificationapp.NewService(notificationRepo, userRepo, log)
	urlBuilder := gateway.NewURLBuilder(cfg.Gateways)
	paymentService := billingapp.NewPaymentService(paymentRepo, numberGenerator, urlBuilder, notificationService, eventBus, log)
	expenseService := expenseapp.NewExpenseService(expenseRepo, numberGenerator, notificationService, eventBus, log)

	// Seed the built-in roles on first start
	if err := roleService.InitializeSystemRoles(context.Background()); err != nil {
		log.Fatal("Failed to initialize system roles", zap.Error(err))
	}

	// Overdue sweep runs at startup and then on the configured interval
	overdueScheduler := scheduler.NewOverdueScheduler(paymentService, cfg.Scheduler.OverdueCheckInterval, log)
	overdueScheduler.Start(context.Background())
	defer overdueScheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.Setup(jwtManager, authService, log, router.Handlers{
		Auth:            handler.NewAuthHandler(authService, userService),
		Users:           handler.NewUserHandler(userService),
		Roles:           handler.NewRoleHandler(roleService),
		Companies:       handler.NewCompanyHandler(companyService),
		PaymentRequests: handler.NewPaymentRequestHandler(paymentService, authService),
		ExpenseRequests: handler.NewExpenseRequestHandler(expenseService, authService),
		Notifications:   handler.NewNotificationHandler(notificationService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
