package main

import (
	"os"

	"emma-client/internal/config"
	"emma-client/internal/database"
	"emma-client/internal/featureflags"
	"emma-client/internal/logging"
	"emma-client/internal/routes"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("emma-flag-service", pflag.ExitOnError)
	fs.String("server.port", "8008", "port to listen on")
	fs.String("database.path", "emma-flags.db", "SQLite database file")
	fs.String("log.level", "info", "log level (debug, info, warn, error)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		panic(err)
	}
	if err := logging.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		panic(err)
	}
	defer func() { _ = logging.Sync() }()

	// Init database
	if err := database.InitDB(cfg.Database.Path); err != nil {
		logging.Fatal("Failed to open database", zap.Error(err))
	}
	if err := database.SeedFlags(database.GetDB(), featureflags.Defaults()); err != nil {
		logging.Fatal("Failed to seed feature flags", zap.Error(err))
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	port := ":" + cfg.Server.Port
	logging.Info("Flag service starting", zap.String("port", port))
	logging.Info("API endpoints",
		zap.Strings("public", []string{
			"GET    /health",
			"GET    /site",
			"GET    /logo",
			"POST   /auth/session",
			"GET    /feature-flags",
			"GET    /feature-flags/:name",
			"GET    /feature-flags/events",
		}),
		zap.Strings("protected", []string{
			"PUT    /feature-flags/:name",
			"DELETE /feature-flags/:name",
			"POST   /feature-flags/reset",
			"POST   /rpc/get_accounts",
			"POST   /agents/default/install",
		}),
	)

	if err := ginRoutes.Run(port); err != nil {
		logging.Fatal("Failed to start server", zap.Error(err))
	}
}
