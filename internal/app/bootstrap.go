package app

import (
	"log/slog"

	"alert_relay/internal/infra"
	"alert_relay/internal/infra/storage"
	"alert_relay/internal/server"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Journal *infra.Journal
	Storage *storage.Storage
	Metrics *infra.Metrics
	Server  *server.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, journal, DB)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Alert Relay...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Open Relay Journal
	journal, err := infra.NewJournal(cfg)
	if err != nil {
		return err
	}
	b.Journal = journal
	slog.Info("✅ Relay journal ready", slog.String("path", cfg.Journal.Path))

	// 4. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.History.DBPath)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 5. Wire the relay server
	b.Metrics = &infra.Metrics{}
	forwarder := infra.NewForwarder(cfg)
	b.Server = server.New(cfg, journal, forwarder, b.Metrics, store)
	slog.Info("✅ Relay server wired", slog.String("remote", cfg.Remote.URL))

	return nil
}

// Close releases resources owned by the bootstrap.
func (b *Bootstrap) Close() {
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Warn("Failed to close journal", slog.Any("error", err))
		}
	}
}
