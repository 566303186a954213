package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/factory-ops/internal/api/http"
	"github.com/spec-kit/factory-ops/internal/api/http/handlers"
	"github.com/spec-kit/factory-ops/internal/auth"
	"github.com/spec-kit/factory-ops/internal/config"
	"github.com/spec-kit/factory-ops/internal/directory"
	"github.com/spec-kit/factory-ops/internal/events"
	"github.com/spec-kit/factory-ops/internal/observability"
	"github.com/spec-kit/factory-ops/internal/persistence"
	"github.com/spec-kit/factory-ops/internal/repository"
	"github.com/spec-kit/factory-ops/internal/service"
	"github.com/spec-kit/factory-ops/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)
	salaryRepo := repository.NewSalaryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	dir := directory.New(userRepo, redis.Client, cfg.Redis.DirectoryCacheTTL(), logger)

	authService := service.NewAuthService(*cfg, userRepo)
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:   taskRepo,
		Directory:  dir,
		Dispatcher: dispatcher,
	})
	employeeService := service.NewEmployeeService(userRepo, cfg.Auth.BcryptCost)
	customerService := service.NewCustomerService(userRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	salaryService := service.NewSalaryService(salaryRepo, dir)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), logger)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Expenses:       handlers.NewExpensesHandler(expenseService),
		Salaries:       handlers.NewSalariesHandler(salaryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
