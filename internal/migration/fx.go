package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crmlite/internal/config"
	"github.com/smallbiznis/crmlite/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Apply(conn, cfg.DBType); err != nil {
			return err
		}
		log.Info("schema ready", zap.String("dialect", cfg.DBType))

		if cfg.Bootstrap.EnsureReferenceData {
			return seed.EnsureReferenceData(conn, node)
		}
		return nil
	}),
)
