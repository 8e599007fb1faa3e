// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down DB connections and other resources.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.CMSCache != nil {
		if err := deps.CMSCache.Close(); err != nil {
			logger.Warn("CMS cache close failed", zap.Error(err))
		}
	}

	if deps.PortalMongoClient != nil {
		logger.Info("disconnecting portal MongoDB client")
		if err := deps.PortalMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
