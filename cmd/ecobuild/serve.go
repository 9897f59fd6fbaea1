package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ecobuild-core/internal/analysis"
	"github.com/nerrad567/ecobuild-core/internal/api"
	"github.com/nerrad567/ecobuild-core/internal/audit"
	"github.com/nerrad567/ecobuild-core/internal/auth"
	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/events"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/mqtt"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

// runServe is the server lifecycle, separated from the command for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Shared command flags
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func runServe(ctx context.Context, opts *rootOptions) error {
	log := logging.Default()
	log.Info("starting EcoBuild Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log.Info("configuration loaded", "path", opts.configPath)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	authSvc := auth.NewService(auth.NewUserRepository(db.DB), auth.NewSessionRepository(db.DB), auth.ServiceConfig{
		Secret:     cfg.Security.JWT.Secret,
		SessionTTL: time.Duration(cfg.Security.JWT.SessionTTL) * time.Minute,
	})

	checks := map[string]api.HealthChecker{"database": db}
	sinks := events.NewMulti(log)

	// MQTT and InfluxDB are optional event sinks
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		sinks.Add("mqtt", events.NewMQTTSink(mqttClient))
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		sinks.Add("influxdb", events.NewInfluxSink(influxClient))
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	srv, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Wizard:    cfg.Wizard,
		Logger:    log,
		Auth:      authSvc,
		Buildings: building.NewSQLiteRepository(db.DB),
		Analyzer:  newAnalyzer(cfg, log),
		Events:    sinks,
		Audit:     audit.NewSQLiteRepository(db.DB),
		Checks:    checks,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if cfg.AI.APIKey == "" {
		log.Warn("no AI API key configured, analyses will fail until ECOBUILD_AI_API_KEY is set")
	}
	log.Info("initialisation complete, waiting for shutdown signal", "address", srv.Addr().String())

	<-ctx.Done()

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB (if enabled), MQTT (if enabled), database.
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// openDatabase opens the configured database and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")
	return db, nil
}

// newAnalyzer builds the scoring collaborator from the ai section.
func newAnalyzer(cfg *config.Config, log *logging.Logger) *analysis.Service {
	gen := analysis.NewGeminiClient(analysis.GeminiConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.GetAITimeout(),
	})
	return analysis.NewService(gen, log)
}
