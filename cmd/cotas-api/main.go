package main

import (
	"flag"

	"github.com/Mavegui/API-Investimentos/internal/app"
	"github.com/Mavegui/API-Investimentos/internal/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, errLoad := config.Load(*configPath)
	if errLoad != nil {
		log.WithError(errLoad).Fatal("loading configuration")
	}

	if *migrateOnly {
		if errMigrate := app.Migrate(cfg); errMigrate != nil {
			log.WithError(errMigrate).Fatal("running migrations")
		}
		log.Info("migrations applied")
		return
	}

	if errRun := app.RunServer(cfg); errRun != nil {
		log.WithError(errRun).Fatal("running server")
	}
}
