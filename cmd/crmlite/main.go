package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crmlite/internal/clock"
	"github.com/smallbiznis/crmlite/internal/config"
	"github.com/smallbiznis/crmlite/internal/migration"
	"github.com/smallbiznis/crmlite/internal/observability"
	"github.com/smallbiznis/crmlite/internal/server"
	"github.com/smallbiznis/crmlite/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Pre-sales, departments, reports and the HTTP surface
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
