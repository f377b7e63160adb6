package main

import (
	"context"
	"time"

	"sourcevia/internal/config"
	"sourcevia/internal/database"
	"sourcevia/internal/features/user"
	"sourcevia/internal/logger"
	"sourcevia/pkg/permissions"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Username string
	FullName string
	Role     permissions.Role
}

var seedUsers = []seedUser{
	{Username: "admin", FullName: "System Administrator", Role: permissions.RoleAdmin},
	{Username: "requester", FullName: "Demo Requester", Role: permissions.RoleRequester},
	{Username: "manager", FullName: "Demo Direct Manager", Role: permissions.RoleDirectManager},
	{Username: "officer", FullName: "Demo Procurement Officer", Role: permissions.RoleProcurementOfficer},
	{Username: "senior", FullName: "Demo Senior Manager", Role: permissions.RoleSeniorManager},
	{Username: "procmanager", FullName: "Demo Procurement Manager", Role: permissions.RoleProcurementManager},
}

// Seed creates one user per role so every permission path can be exercised
// right after a fresh install. Existing usernames are left untouched.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
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

				logger.Info("Seeding demo users")

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
				if err != nil {
					logger.Error("Failed to hash seed password", zap.Error(err))
					return
				}

				for _, su := range seedUsers {
					if existing, err := userRepo.FindByUsername(ctx, su.Username); err == nil && existing != nil {
						logger.Info("User already exists, skipping", zap.String("username", su.Username))
						continue
					}

					now := time.Now()
					u := &user.User{
						Username:  su.Username,
						Password:  string(hash),
						Email:     su.Username + "@sourcevia.local",
						FullName:  su.FullName,
						Role:      su.Role,
						Status:    "active",
						CreatedAt: now,
						UpdatedAt: now,
					}
					if err := userRepo.Create(ctx, u); err != nil {
						logger.Error("Failed to create user", zap.String("username", su.Username), zap.Error(err))
						continue
					}
					logger.Info("Created user", zap.String("username", su.Username), zap.String("role", string(su.Role)))
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
		),
		fx.WithLogger(func(zapLogger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zapLogger}
		}),
		fx.Invoke(Seed),
	).Run()
}
