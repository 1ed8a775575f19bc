package cli

import (
	"context"
	"fmt"

	"github.com/healthners/healthners/internal/adapters/llm"
	firestorestore "github.com/healthners/healthners/internal/adapters/storage/firestore"
	memstore "github.com/healthners/healthners/internal/adapters/storage/memory"
	sqlitestore "github.com/healthners/healthners/internal/adapters/storage/sqlite"
	"github.com/healthners/healthners/internal/app/conversation"
	"github.com/healthners/healthners/internal/app/history"
	"github.com/healthners/healthners/internal/app/identity"
	"github.com/healthners/healthners/internal/app/session"
	"github.com/healthners/healthners/internal/app/settings"
	"github.com/healthners/healthners/internal/config"
	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/observability"
)

// application is everything a command needs, built from the config.
type application struct {
	conversation *conversation.Service
	settings     *settings.Store
	close        func()
}

func buildApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := observability.WithFields("mode", cfg.Mode, "storage", cfg.StorageBackend)

	var model domain.ChatModel
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		model = llm.NewMockModel()
	} else {
		log.Info("using Gemini LLM client", "model", cfg.ModelName, "vertex", cfg.Mode == config.ModeGCP)
		gm, err := llm.NewGeminiModel(ctx, llm.GeminiConfig{
			APIKey:    cfg.APIKey,
			UseVertex: cfg.Mode == config.ModeGCP,
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing Gemini client: %w", err)
		}
		model = gm
	}

	var (
		kv      domain.KVStore
		closeKV = func() {}
	)
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, fmt.Errorf("initializing Firestore store: %w", err)
		}
		kv = fs
		closeKV = func() { _ = fs.Close() }
	case config.StorageSQLite:
		log.Info("using SQLite storage", "path", cfg.SQLitePath)
		db, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initializing SQLite store: %w", err)
		}
		kv = db
		closeKV = func() { _ = db.Close() }
	default:
		log.Info("using in-memory storage")
		kv = memstore.NewKVStore()
	}

	settingsStore := settings.NewStore(kv)
	registry := session.NewRegistry(model, session.WithTranscriptLimit(cfg.TranscriptLimit))
	svc := conversation.NewService(registry, history.NewStore(kv), identity.NewStore(kv), settingsStore)

	return &application{
		conversation: svc,
		settings:     settingsStore,
		close:        closeKV,
	}, nil
}
