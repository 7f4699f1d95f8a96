package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gubbigubbi/easy-social-sharing/internal/auth"
	"github.com/gubbigubbi/easy-social-sharing/internal/conf"
	"github.com/gubbigubbi/easy-social-sharing/internal/data"
	networkbiz "github.com/gubbigubbi/easy-social-sharing/internal/network/biz"
	networkdata "github.com/gubbigubbi/easy-social-sharing/internal/network/data"
	networkservice "github.com/gubbigubbi/easy-social-sharing/internal/network/service"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/workerpool"
	"github.com/gubbigubbi/easy-social-sharing/internal/server"
	sharingbiz "github.com/gubbigubbi/easy-social-sharing/internal/sharing/biz"
	sharingdata "github.com/gubbigubbi/easy-social-sharing/internal/sharing/data"
	"github.com/gubbigubbi/easy-social-sharing/internal/sharing/fetcher"
	sharingservice "github.com/gubbigubbi/easy-social-sharing/internal/sharing/service"
	statsbiz "github.com/gubbigubbi/easy-social-sharing/internal/statistics/biz"
	statsdata "github.com/gubbigubbi/easy-social-sharing/internal/statistics/data"
	statsservice "github.com/gubbigubbi/easy-social-sharing/internal/statistics/service"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Data layer
	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Repositories
	networkRepo := networkdata.NewNetworkRepo(d.DB)
	statsRepo := statsdata.NewStatisticsRepo(d.DB)
	cacheRepo := sharingdata.NewCountCacheRepo(d.Redis)

	// Use cases
	networkUseCase := networkbiz.NewNetworkUseCase(networkRepo, networkbiz.Config{
		APISupportOnly:    config.Sharing.APISupportNetworksOnly,
		APISupportedNames: config.Sharing.APISupportedNames(),
		DefaultLabel:      config.Sharing.DefaultNetworkLabel,
	})
	statsUseCase := statsbiz.NewStatisticsUseCase(statsRepo)
	countFetcher := fetcher.NewHTTPFetcher(&config.Sharing, log)

	fetchPool, err := workerpool.New(config.Sharing.FetchWorkers)
	if err != nil {
		log.Fatal("failed to initialize fetch worker pool", zap.Error(err))
	}
	defer fetchPool.Release()

	countUseCase := sharingbiz.NewCountUseCase(
		cacheRepo,
		countFetcher,
		networkUseCase,
		statsUseCase,
		fetchPool,
		sharingbiz.Config{
			CacheInterval: config.Sharing.CacheInterval,
			FetchTimeout:  config.Sharing.FetchTimeout,
		},
		log,
	)

	// Services
	tokenManager := auth.NewTokenManager(config.Auth.TokenSecret, config.Auth.TokenIssuer, config.Auth.TokenTTL)
	networkService := networkservice.NewNetworkService(networkUseCase, log)
	shareService := sharingservice.NewShareService(countUseCase, statsUseCase, tokenManager, log)
	statsService := statsservice.NewStatisticsService(statsUseCase, log)

	httpServer := server.NewHTTPServer(config, log, networkService, shareService, statsService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("failed to stop HTTP server gracefully", zap.Error(err))
	}

	log.Info("server exited")
}
