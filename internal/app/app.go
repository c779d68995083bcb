// Package app connects the backing stores and assembles the services shared
// by the server and the seed tool.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"formflow/internal/cache"
	"formflow/internal/config"
	"formflow/internal/repository"
	"formflow/internal/service"
)

const pingTimeout = 5 * time.Second

type App struct {
	FormRepo       repository.FormRepo
	SubmissionRepo repository.SubmissionRepo
	SessionCache   cache.SessionCache

	AuthService *service.AuthService
	FormService *service.FormService
	FillService *service.FillService

	mongo  *mongo.Client
	redis  *redis.Client
	logger *zap.Logger
}

// New connects to MongoDB and Redis, ensures indexes and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDB))

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	a := &App{
		FormRepo:       repository.NewFormRepo(db),
		SubmissionRepo: repository.NewSubmissionRepo(db),
		SessionCache:   cache.NewSessionCache(rdb, cfg.SessionTTL),
		AuthService:    service.NewAuthService(cfg),
		mongo:          mongoClient,
		redis:          rdb,
		logger:         logger,
	}
	a.FormService = service.NewFormService(a.FormRepo, logger.Named("forms"))
	a.FillService = service.NewFillService(a.FormRepo, a.SubmissionRepo, a.SessionCache, logger.Named("fill"))
	return a, nil
}

// Close releases the store connections.
func (a *App) Close(ctx context.Context) {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("failed to close redis", zap.Error(err))
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.logger.Warn("failed to disconnect mongodb", zap.Error(err))
	}
}
