package cli

import (
	"context"
	"fmt"

	"taskdeck/internal/backend/googletasks"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
	"taskdeck/internal/storage"
	"taskdeck/internal/storage/file"
	"taskdeck/internal/storage/mysql"
	"taskdeck/internal/storage/postgres"
)

// OpenStorage opens the storage backend named in cfg.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	st := cfg.Storage
	switch st.Backend {
	case storage.BackendFile, "":
		s, err := file.New(cfg.StorageDir(), cfg.Log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case storage.BackendPostgres:
		s, err := postgres.Open(ctx, st.DSN, cfg.Log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case storage.BackendMySQL:
		s, err := mysql.Open(ctx, st.DSN, cfg.Log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", st.Backend)
	}
}

// DefaultSessionFactory opens the configured storage and loads the task list.
func DefaultSessionFactory(ctx context.Context, cfg *config.Config) (*session.Session, error) {
	kv, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := session.Open(ctx, kv, session.Options{
		MaxHistory: cfg.MaxHistory,
		Locale:     cfg.Locale,
		Log:        cfg.Log,
	})
	if err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

// DefaultRemoteFactory connects to Google Tasks with the stored token.
func DefaultRemoteFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	c, err := googletasks.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
