// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tgmarket/market-backend/internal/cache"
	"github.com/tgmarket/market-backend/internal/config"
	"github.com/tgmarket/market-backend/internal/database"
	"github.com/tgmarket/market-backend/internal/parser"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/router"
	"github.com/tgmarket/market-backend/internal/services"
	"github.com/tgmarket/market-backend/internal/utils"
	"github.com/tgmarket/market-backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	log := logrus.New()
	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database, cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Resolution cache: Redis when configured, in-process otherwise
	var resolveCache cache.Cache
	if cfg.Redis.Enabled {
		resolveCache, err = cache.NewRedisCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, "market")
		if err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
	} else {
		resolveCache = cache.NewMemoryCache()
	}
	defer resolveCache.Close()

	// Repositories
	messageRepo := repository.NewMessageRepository(db)
	productRepo := repository.NewProductRepository(db)
	pendingRepo := repository.NewPendingRepository(db)
	listingRepo := repository.NewListingRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	// Services
	catalog := services.NewCatalogCache(productRepo, time.Duration(cfg.Matching.CatalogTTL)*time.Second)
	resolver := services.NewResolverService(productRepo, pendingRepo, catalog, resolveCache, cfg.Matching, log)
	anomaly := services.NewAnomalyService(listingRepo, productRepo, cfg.Anomaly)
	moderation := services.NewModerationService(productRepo, pendingRepo, catalog, log)
	ingest := services.NewIngestService(messageRepo, log)

	retryCfg := utils.RetryConfig{
		Attempts:  cfg.Worker.RetryAttempts,
		BaseDelay: time.Duration(cfg.Worker.RetryBaseMs) * time.Millisecond,
		MaxDelay:  2 * time.Second,
	}
	pipeline := services.NewPipelineService(
		parser.New(parserConfig(cfg.Parser)),
		resolver,
		anomaly,
		messageRepo,
		listingRepo,
		exchangeRepo,
		serviceRepo,
		retryCfg,
		log,
	)

	// Background parse worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	w := worker.New(messageRepo, pipeline, cfg.Worker, log)
	go func() {
		if err := w.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			log.WithError(err).Error("parse worker exited")
		}
	}()

	// HTTP server
	r := router.Initialize(router.Deps{
		DB:         db,
		Log:        log,
		Ingest:     ingest,
		Moderation: moderation,
		Catalog:    catalog,
		Products:   productRepo,
		Pendings:   pendingRepo,
		Listings:   listingRepo,
		Exchanges:  exchangeRepo,
		Services:   serviceRepo,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Info("Server exited")
}

// parserConfig applies env overrides on top of the built-in chat
// conventions; unset fields keep the defaults.
func parserConfig(pc config.ParserConfig) parser.Config {
	cfg := parser.DefaultConfig()
	if pc.SellTags != nil {
		cfg.Tags[parser.SectionSell] = pc.SellTags
	}
	if pc.BuyTags != nil {
		cfg.Tags[parser.SectionBuy] = pc.BuyTags
	}
	if pc.TradeTags != nil {
		cfg.Tags[parser.SectionTrade] = pc.TradeTags
	}
	if pc.ServiceTags != nil {
		cfg.Tags[parser.SectionService] = pc.ServiceTags
	}
	if pc.HireTags != nil {
		cfg.HireTags = pc.HireTags
	}
	return cfg
}
