// Gray Logic Status - configuration status and metadata service
//
// This is the main entry point for the config status service. It serves
// localized configuration status for entities, manages item metadata and
// publishes change events over MQTT and WebSocket.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-configstatus/internal/api"
	"github.com/nerrad567/gray-logic-configstatus/internal/configstatus"
	"github.com/nerrad567/gray-logic-configstatus/internal/events"
	"github.com/nerrad567/gray-logic-configstatus/internal/i18n"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-configstatus/internal/metadata"
	"github.com/nerrad567/gray-logic-configstatus/internal/storage"
	"github.com/nerrad567/gray-logic-configstatus/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"

	// metadataStorage names the storage partition holding metadata entries.
	metadataStorage = "metadata"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Sequential startup wiring
	log := logging.Default()
	log.Info("starting Gray Logic Status",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // Best effort on shutdown
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"output", cfg.Logging.Output,
	)

	defaultLocale, err := i18n.ParseLocale(cfg.I18n.DefaultLocale)
	if err != nil {
		return fmt.Errorf("parsing default locale: %w", err)
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	catalog, err := loadCatalog(cfg.I18n, log)
	if err != nil {
		return err
	}

	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	publishers := events.Multi{hub}

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(log)
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		publishers = append(publishers, events.NewMQTTPublisher(mqttClient, mqttClient.QoS()))
	} else {
		log.Info("MQTT disabled")
	}

	svc, err := configstatus.NewService(configstatus.Deps{
		Translations: catalog,
		Locales:      i18n.StaticLocaleProvider{Tag: defaultLocale},
		Publisher:    publishers,
		KeyPrefix:    cfg.ConfigStatus.MessageKeyPrefix,
		Logger:       log.With("component", "configstatus"),
	})
	if err != nil {
		return fmt.Errorf("creating config status service: %w", err)
	}

	var tracker *metadata.StatusTracker
	store := metadata.NewStore(
		storage.NewSQLiteStorage(db.DB, metadataStorage),
		events.Multi{publishers, events.PublisherFunc(func(ctx context.Context, e events.Event) error {
			return tracker.Post(ctx, e)
		})},
	)
	store.SetLogger(log.With("component", "metadata"))

	tracker = metadata.NewStatusTracker(store, svc)
	tracker.SetLogger(log.With("component", "metadata-status"))
	if syncErr := tracker.Sync(ctx); syncErr != nil {
		return fmt.Errorf("loading metadata status providers: %w", syncErr)
	}

	if mqttClient != nil {
		topics := mqtt.Topics{}
		if subErr := mqttClient.Subscribe(topics.AllConfigStatusRequests(), mqttClient.QoS(),
			statusRequestHandler(ctx, svc, log)); subErr != nil {
			return fmt.Errorf("subscribing to config status requests: %w", subErr)
		}
		log.Info("listening for config status requests", "topic", topics.AllConfigStatusRequests())
	}

	server, err := api.New(api.Deps{
		Config:       cfg.API,
		WS:           cfg.WebSocket,
		Logger:       log,
		ConfigStatus: svc,
		Metadata:     store,
		Hub:          hub,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received")

	return nil
}

// loadCatalog returns the embedded catalog, layered with the configured
// catalog directory when one is set.
func loadCatalog(cfg config.I18nConfig, log *logging.Logger) (*i18n.Catalog, error) {
	catalog, err := i18n.NewDefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading embedded translations: %w", err)
	}
	catalog.SetLogger(log)

	if cfg.CatalogDir != "" {
		if err := catalog.LoadDir(cfg.CatalogDir); err != nil {
			return nil, fmt.Errorf("loading translations from %s: %w", cfg.CatalogDir, err)
		}
		log.Info("translations loaded", "dir", cfg.CatalogDir)
	}
	return catalog, nil
}

// statusRequestHandler republishes an entity's config status when a
// request arrives on graylogic/request/config-status/{entity}.
func statusRequestHandler(ctx context.Context, svc *configstatus.Service, log *logging.Logger) mqtt.MessageHandler {
	return func(topic string, _ []byte) error {
		entityID, ok := mqtt.Topics{}.ConfigStatusRequestEntity(topic)
		if !ok {
			log.Warn("ignoring malformed config status request", "topic", topic)
			return nil
		}
		err := svc.PublishConfigStatus(ctx, entityID)
		if errors.Is(err, configstatus.ErrEntityNotFound) {
			log.Debug("config status requested for unknown entity", "entity_id", entityID)
			return nil
		}
		return err
	}
}

// getConfigPath returns the configuration file path from GRAYLOGIC_CONFIG
// or the default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
