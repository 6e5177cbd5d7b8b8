package main

import (
	"context"
	"fmt"
	"time"

	"go-docflow/internal/api"
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/config"
	"go-docflow/internal/database"
	"go-docflow/internal/features/auth"
	"go-docflow/internal/features/directory"
	"go-docflow/internal/features/document"
	"go-docflow/internal/features/events"
	"go-docflow/internal/features/logs"
	"go-docflow/internal/features/process"
	"go-docflow/internal/features/routing"
	"go-docflow/internal/features/step"
	"go-docflow/internal/features/workflow"
	"go-docflow/internal/logger"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"
	"go-docflow/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app; every error leaves as {"message": ...}
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.Status(err)).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("Starting server", zap.String("port", port))
				if err := app.Listen(port); err != nil {
					log.Error("Server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, log *zap.Logger, workflowRepo workflow.WorkflowRepository, processRepo process.ProcessRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := workflowRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure workflow indexes", zap.Error(err))
				}
				if err := processRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure process indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func NewTokenManager(cfg *config.Config) *session.TokenManager {
	return session.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
}

// @title           docflow API
// @version         1.0
// @description     Workflow routing and process initiation for document management.
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			NewTokenManager,

			database.NewDatabase,
			database.NewRedis,
			storage.NewDriverFromConfig,

			directory.NewDirectoryRepository,
			workflow.NewWorkflowRepository,
			document.NewDocumentRepository,
			process.NewProcessRepository,
			logs.NewLogRepository,

			directory.NewDirectoryService,
			workflow.NewWorkflowService,
			routing.NewRoutingService,
			document.NewDocumentService,
			process.NewSubmissionGuard,
			process.NewProcessService,
			auth.NewAuthService,
			logs.NewLogService,
			logs.NewRetentionJob,
			events.NewHub,

			// Interface adapters
			func(s directory.DirectoryService) workflow.Invalidator { return s },
			func(h *events.Hub) events.Publisher { return h },

			directory.NewDirectoryController,
			workflow.NewWorkflowController,
			routing.NewRoutingController,
			step.NewStepController,
			document.NewDocumentController,
			process.NewProcessController,
			auth.NewAuthController,
			logs.NewLogController,
			events.NewEventsController,

			AsRoute(api.NewHealthApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(directory.NewDirectoryApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(routing.NewRoutingApi),
			AsRoute(step.NewStepApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(process.NewProcessApi),
			AsRoute(logs.NewLogApi),
			AsRoute(events.NewEventsApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			logs.RegisterRetentionJob,
			InitializeIndexes,
		),
	)

	app.Run()
}
