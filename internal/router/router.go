// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tgmarket/market-backend/internal/handlers"
	"github.com/tgmarket/market-backend/internal/middleware"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/services"
)

// Deps carries the shared pieces the HTTP layer needs. The services are
// built in main so the background worker can reuse the same instances.
type Deps struct {
	DB         *gorm.DB
	Log        *logrus.Logger
	Ingest     *services.IngestService
	Moderation *services.ModerationService
	Catalog    *services.CatalogCache
	Products   repository.ProductRepository
	Pendings   repository.PendingRepository
	Listings   repository.ListingRepository
	Exchanges  repository.ExchangeRepository
	Services   repository.ServiceRepository
}

func Initialize(d Deps) *gin.Engine {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(d.DB)
	messageHandler := handlers.NewMessageHandler(d.Ingest)
	listingHandler := handlers.NewListingHandler(d.Listings, d.Exchanges, d.Services)
	productHandler := handlers.NewProductHandler(d.Products, d.Catalog)
	pendingHandler := handlers.NewPendingHandler(d.Pendings, d.Moderation)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", healthHandler.Check)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Ingestion endpoint for the chat fetcher
		messages := v1.Group("/messages")
		messages.Use(middleware.IngestRateLimit())
		{
			messages.POST("", messageHandler.IngestBatch)
		}

		// Extracted market data
		v1.GET("/listings", listingHandler.List)
		v1.GET("/exchanges", listingHandler.ListExchanges)
		v1.GET("/service-listings", listingHandler.ListServiceListings)

		// Product catalog
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", middleware.AdminRateLimit(), productHandler.Create)
		}

		// Moderation queue
		pendings := v1.Group("/pendings")
		pendings.Use(middleware.AdminRateLimit())
		{
			pendings.GET("", pendingHandler.List)
			pendings.POST("/:id/approve", pendingHandler.Approve)
			pendings.POST("/:id/reject", pendingHandler.Reject)
			pendings.POST("/:id/merge", pendingHandler.Merge)
			pendings.POST("/:id/create-product", pendingHandler.CreateProduct)
		}
	}

	return r
}
