package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"go-worklog/internal/config"
	"go-worklog/internal/database"
	"go-worklog/internal/features/audit"
	"go-worklog/internal/features/auth"
	"go-worklog/internal/features/department"
	"go-worklog/internal/features/user"
	"go-worklog/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Options are set from the command line
type Options struct {
	UsersPath string
	SkipUsers bool
}

// Seed creates indexes, the department list and the demo accounts, then stops the app
func Seed(
	lc fx.Lifecycle,
	db *database.MongodbDB,
	departments department.DepartmentService,
	authService auth.AuthService,
	opts Options,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				logger.Info("Starting database seeding")

				if err := db.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure indexes", zap.Error(err))
					return
				}

				var users []auth.RegisterRequest
				if !opts.SkipUsers {
					b, err := os.ReadFile(opts.UsersPath)
					if err != nil {
						logger.Error("Failed to read users", zap.String("path", opts.UsersPath), zap.Error(err))
						return
					}
					if err := json.Unmarshal(b, &users); err != nil {
						logger.Error("Failed to parse users", zap.String("path", opts.UsersPath), zap.Error(err))
						return
					}
				}

				for _, req := range users {
					_, err := authService.Register(ctx, req)
					switch {
					case errors.Is(err, auth.ErrEmailTaken):
						logger.Info("User exists, skipping", zap.String("email", req.Email))
					case err != nil:
						logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
					default:
						logger.Info("User created", zap.String("email", req.Email), zap.String("role", req.Role))
					}
				}

				if err := departments.Seed(ctx); err != nil {
					logger.Error("Failed to seed departments", zap.Error(err))
					return
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func newRootCmd() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create indexes, departments and demo accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.Supply(opts),
				fx.Provide(
					config.LoadConfig,
					logger.NewLogger,
					database.NewDatabase,
					user.NewUserRepository,
					user.NewUserService,
					func(r user.UserRepository) department.UserDepartments { return r },
					func(s user.UserService) audit.UserFinder { return s },
					audit.NewAuditRepository,
					audit.NewAuditService,
					auth.NewAuthService,
					department.NewDepartmentRepository,
					department.NewDepartmentService,
				),
				fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: log}
				}),
				fx.Invoke(Seed),
			)

			if err := app.Start(context.Background()); err != nil {
				return err
			}
			<-app.Done()
			return app.Stop(context.Background())
		},
	}

	cmd.Flags().StringVar(&opts.UsersPath, "users", "cmd/seed/data/users.json", "JSON file with accounts to register")
	cmd.Flags().BoolVar(&opts.SkipUsers, "skip-users", false, "only create indexes and departments")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
