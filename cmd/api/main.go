package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-worklog/internal/common/api"
	"go-worklog/internal/config"
	"go-worklog/internal/database"
	"go-worklog/internal/features/analytics"
	"go-worklog/internal/features/audit"
	"go-worklog/internal/features/auth"
	"go-worklog/internal/features/department"
	"go-worklog/internal/features/housekeeping"
	"go-worklog/internal/features/reminder"
	"go-worklog/internal/features/report"
	"go-worklog/internal/features/system"
	"go-worklog/internal/features/user"
	"go-worklog/internal/logger"
	"go-worklog/internal/middleware"
	"go-worklog/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(logger))
	app.Use(middleware.CORSMiddleware(cfg.ClientURL))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("server listening", zap.String("port", cfg.Port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeStore creates indexes and seeds the department list
func InitializeStore(lc fx.Lifecycle, db *database.MongodbDB, departments department.DepartmentService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := db.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure indexes", zap.Error(err))
				}
				if err := departments.Seed(ctx); err != nil {
					logger.Error("failed to seed departments", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartHousekeeping runs the maintenance scheduler for the lifetime of the app
func StartHousekeeping(lc fx.Lifecycle, service housekeeping.HousekeepingService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return service.Start()
		},
		OnStop: func(ctx context.Context) error {
			service.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			report.NewReportRepository,
			department.NewDepartmentRepository,
			reminder.NewReminderRepository,
			housekeeping.NewRunRepository,

			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			user.NewReportDirectory,
			department.NewDepartmentService,
			report.NewReportService,
			analytics.NewResultCache,
			analytics.NewAnalyticsService,
			reminder.NewHub,
			reminder.NewReminderService,
			housekeeping.NewHousekeepingService,

			// Interface adapters to break circular dependencies and satisfy Fx
			func(s user.UserService) audit.UserFinder { return s },
			func(r user.UserRepository) department.UserDepartments { return r },
			func(r user.UserRepository) analytics.EmployeeCounter { return r },
			func(r report.ReportRepository) analytics.ReportSource { return r },
			func(s department.DepartmentService) analytics.DepartmentSource { return s },
			func(c *analytics.ResultCache) report.ChangeListener { return c },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			audit.NewAuditController,
			department.NewDepartmentController,
			report.NewReportController,
			analytics.NewAnalyticsController,
			reminder.NewReminderController,
			housekeeping.NewHousekeepingController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(department.NewDepartmentApi),
			AsRoute(report.NewReportApi),
			AsRoute(analytics.NewAnalyticsApi),
			AsRoute(reminder.NewReminderApi),
			AsRoute(housekeeping.NewHousekeepingApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeStore,
			StartHousekeeping,
		),
	)

	app.Run()
}
