package data

import (
	"fmt"

	"github.com/gubbigubbi/easy-social-sharing/internal/conf"
	networkdata "github.com/gubbigubbi/easy-social-sharing/internal/network/data"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/database"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/redis"
	statsdata "github.com/gubbigubbi/easy-social-sharing/internal/statistics/data"
)

// Data bundles the storage clients shared by every repository
type Data struct {
	DB    *database.DB
	Redis *redis.Client
}

// NewData initializes Postgres and Redis and migrates the schema
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := db.AutoMigrate(&networkdata.NetworkPO{}, &statsdata.ShareEventPO{}); err != nil {
		db.Close()
		return nil, nil, err
	}

	redisClient, err := redis.New(&config.Redis, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	d := &Data{
		DB:    db,
		Redis: redisClient,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")

		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client")
		}
		if err := db.Close(); err != nil {
			log.Warn("failed to close database")
		}
	}

	return d, cleanup, nil
}
