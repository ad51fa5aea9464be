package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/migration"
	"github.com/smallbiznis/gstbilling/internal/observability"
	"github.com/smallbiznis/gstbilling/internal/server"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(clock.Provide),
		db.Module,
		migration.Module,

		// Domain services and HTTP routes
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
