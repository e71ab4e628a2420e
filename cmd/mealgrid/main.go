package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/audit"
	"github.com/tiffinlabs/mealgrid/internal/catalog"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/dashboard"
	"github.com/tiffinlabs/mealgrid/internal/events"
	"github.com/tiffinlabs/mealgrid/internal/mealconfig"
	"github.com/tiffinlabs/mealgrid/internal/migration"
	"github.com/tiffinlabs/mealgrid/internal/observability"
	"github.com/tiffinlabs/mealgrid/internal/propagation"
	"github.com/tiffinlabs/mealgrid/internal/seed"
	"github.com/tiffinlabs/mealgrid/internal/server"
	"github.com/tiffinlabs/mealgrid/internal/subscription"
	"github.com/tiffinlabs/mealgrid/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			return migration.RunMigrations(conn)
		}),
		seed.Module,
		catalog.Module,
		mealconfig.Module,
		subscription.Module,
		events.Module,
		audit.Module,
		propagation.Module,
		dashboard.Module,
		server.Module,
	)
	app.Run()
}
