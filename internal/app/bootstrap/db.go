// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/kapatiranph/portal/internal/app/cms"
	accountstore "github.com/kapatiranph/portal/internal/app/store/accounts"
	contribstore "github.com/kapatiranph/portal/internal/app/store/contributions"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and the optional Redis-backed
// CMS cache, returning them bundled in DBDeps for the rest of the lifecycle.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	deps := DBDeps{
		PortalMongoClient:   client,
		PortalMongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		deps.CMSCache = cms.NewCache(appCfg.RedisAddr, appCfg.CMSCacheTTL, logger)
		logger.Info("CMS response cache enabled", zap.String("redis_addr", appCfg.RedisAddr))
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))
	return deps, nil
}

// EnsureSchema creates the indexes every store depends on: unique account
// emails, unique attendance (event, member) pairs, folded-name search for
// members, and attendance-code lookup for events.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.PortalMongoDatabase

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"members", memberstore.New(db).EnsureIndexes},
		{"accounts", accountstore.New(db).EnsureIndexes},
		{"events", eventstore.New(db).EnsureIndexes},
		{"attendance", eventstore.NewAttendance(db).EnsureIndexes},
		{"contributions", contribstore.New(db).EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			logger.Error("index creation failed", zap.String("collection", s.name), zap.Error(err))
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}

	logger.Info("schema indexes ensured")
	return nil
}
