package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/clock"
	"github.com/carelinkhq/carelink/internal/config"
	"github.com/carelinkhq/carelink/internal/logger"
	"github.com/carelinkhq/carelink/internal/seed"
	"github.com/carelinkhq/carelink/internal/server"
	"github.com/carelinkhq/carelink/pkg/db"
	"github.com/carelinkhq/carelink/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		telemetry.Module,

		fx.Invoke(seed.EnsureSchema),
		fx.Invoke(seed.EnsureCatalog),

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
