package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/cmd/userdir/infrastructure"
	"user-directory-service/internal/adapter/cache"
	"user-directory-service/internal/adapter/db/memory"
	"user-directory-service/internal/adapter/db/relational"
	ginhandler "user-directory-service/internal/adapter/gin/handler"
	grpcadapter "user-directory-service/internal/adapter/grpc"
	"user-directory-service/internal/adapter/repository/cached"
	"user-directory-service/internal/config"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
	redisclient "user-directory-service/pkg/redis"
	"user-directory-service/pkg/security"
)

// Backend is a storage backend owned by the container.
type Backend interface {
	user.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB // nil for the memory backend
	Backend       Backend
	RedisClient   *redisclient.Client // nil unless REDIS_ENABLED
	Store         *user.Store
	GinHandler    *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
	GRPCService   *grpcadapter.UserService
}

// NewBackend opens the storage backend selected by STORAGE_BACKEND.
func NewBackend(cfg *config.Config, l *zap.Logger) (Backend, *gorm.DB, error) {
	if cfg.DB.Backend == config.BackendMemory {
		l.Warn("using in-memory storage, data is lost on restart")
		return memory.NewUserRepo(l), nil, nil
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return relational.NewUserRepo(db, l), db, nil
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	backend, db, err := NewBackend(cfg, l)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  l,
		DB:      db,
		Backend: backend,
	}

	var repo user.Repository = backend
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		userCache := cache.NewRedisUserCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
		repo = cached.NewUserRepository(backend, userCache, l)
	}

	c.Store = user.New(repo, security.NewBcryptHasher(cfg.Security.BcryptCost), l)
	c.GinHandler = ginhandler.NewUserHandler(c.Store, l)
	c.HealthHandler = ginhandler.NewHealthHandler(cfg.Logger.ServiceName, backend, l)
	c.GRPCService = grpcadapter.NewUserService(c.Store, l)

	if cfg.Seed.Enabled() {
		if err := SeedUser(ctx, c.Store, cfg.Seed, l); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

// SeedUser creates the configured user unless its email is already registered.
func SeedUser(ctx context.Context, uc user.Usecase, seed config.SeedConfig, l *zap.Logger) error {
	resp, err := uc.CreateUser(ctx, user.CreateUserRequest{
		Name:     seed.Name,
		Email:    seed.Email,
		Password: seed.Password,
	})

	var conflict *apperrors.ConflictError
	switch {
	case errors.As(err, &conflict):
		l.Debug("seed user already present", zap.String("email", seed.Email))
		return nil
	case err != nil:
		return fmt.Errorf("failed to seed user: %w", err)
	}

	l.Info("seed user created", zap.Int64("id", resp.ID), zap.String("email", seed.Email))
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.Backend != nil {
		if err := c.Backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
		}
	}

	return errors.Join(errs...)
}
