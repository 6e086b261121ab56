package main

import (
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/application"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/config"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/repositories/database"
	"github.com/iot-for-tillgenglighet/messaging-golang/pkg/messaging"
)

func main() {

	serviceName := "geolog"

	log := logging.NewLogger()
	log.Infof("Starting up %s ...", serviceName)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err.Error())
	}
	logging.SetLevel(cfg.LogLevel)

	var messenger application.MessagingContext

	if cfg.EventsEnabled {
		messagingConfig := messaging.LoadConfiguration(serviceName)
		messagingContext, err := messaging.Initialize(messagingConfig)
		if err != nil {
			log.Warnf("Events are disabled, failed to connect to message queue: %s", err.Error())
		} else {
			defer messagingContext.Close()
			messenger = messagingContext
		}
	}

	db, err := database.NewDatabaseConnection(database.NewPostgreSQLConnector(cfg, log), log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err.Error())
	}

	application.CreateRouterAndStartServing(cfg, log, messenger, db)
}
