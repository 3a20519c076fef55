package prefs

import (
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"fmt"
)

func NewStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, compressor Compressor) (Store, error) {
	switch conf.Prefs.Driver {
	case "memory":
		logger.Warnf(providers.TypeApp, "Preferences kept in memory, premium windows will not survive a restart")
		return NewMemoryStore(), nil
	case "file", "":
		logger.Infof(providers.TypeApp, "Preferences stored in %s", conf.Prefs.FilePath)
		return NewFileStore(conf.Prefs.FilePath, compressor, logger, metrics), nil
	case "redis":
		store := NewRedisStore(conf.Prefs.Redis, logger)
		ctx, cancel := context.WithTimeout(context.Background(), store.timeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			// go-redis reconnects on the next command, so keep serving
			logger.Errorf(providers.TypeApp, "Redis %s is unreachable, premium windows are not saved until it answers: %s", conf.Prefs.Redis.Addr, err)
			return store, nil
		}
		logger.Infof(providers.TypeApp, "Preferences stored in redis %s", conf.Prefs.Redis.Addr)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown prefs driver %q", conf.Prefs.Driver)
	}
}
