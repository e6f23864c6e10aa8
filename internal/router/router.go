// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/bundle"
	"github.com/javajoker/storefront-backend/internal/cart"
	"github.com/javajoker/storefront-backend/internal/catalog"
	"github.com/javajoker/storefront-backend/internal/checkout"
	"github.com/javajoker/storefront-backend/internal/config"
	"github.com/javajoker/storefront-backend/internal/handlers"
	"github.com/javajoker/storefront-backend/internal/middleware"
	"github.com/javajoker/storefront-backend/internal/providers"
	"github.com/javajoker/storefront-backend/internal/storage"
)

func Initialize(cfg *config.Config, log *logrus.Logger) *gin.Engine {
	// Provider clients are constructed here and injected everywhere, never
	// held as package-level singletons.
	httpClient := providers.NewHTTPClient()

	var gumroadClient *providers.GumroadClient
	if cfg.Providers.Gumroad.Enabled {
		gumroadClient = providers.NewGumroadClient(
			cfg.Providers.Gumroad.BaseURL,
			cfg.Providers.Gumroad.AccessToken,
			httpClient,
			log,
		)
	}

	var printifyClient *providers.PrintifyClient
	if cfg.Providers.Printify.Enabled {
		printifyClient = providers.NewPrintifyClient(
			cfg.Providers.Printify.BaseURL,
			cfg.Providers.Printify.Token,
			cfg.Providers.Printify.ShopID,
			httpClient,
			log,
		)
	}

	// A nil interface value must stay nil for the catalog's enabled check.
	var gumroadAPI catalog.GumroadAPI
	if gumroadClient != nil {
		gumroadAPI = gumroadClient
	}
	var printifyAPI catalog.PrintifyAPI
	if printifyClient != nil {
		printifyAPI = printifyClient
	}

	catalogService := catalog.NewService(
		gumroadAPI,
		printifyAPI,
		time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second,
		log,
	)

	fileStore := storage.NewFileStore(cfg.Storage.Dir, log)
	cartManager := cart.NewManager(fileStore, log)

	var bundleService *bundle.Service
	var bundleCreator checkout.BundleCreator
	if gumroadClient != nil {
		bundleService = bundle.NewService(
			gumroadClient,
			time.Duration(cfg.Checkout.BundleTTLHours)*time.Hour,
			log,
		)
		bundleCreator = bundleService
	}

	planner := checkout.NewPlanner(
		bundleCreator,
		time.Duration(cfg.Checkout.StaggerMillis)*time.Millisecond,
		log,
	)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartManager, catalogService)
	wishlistHandler := handlers.NewWishlistHandler(cartManager)
	checkoutHandler := handlers.NewCheckoutHandler(cartManager, planner, bundleService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.CartSession(cfg.Environment == "production"))
	{
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", cartHandler.GetCart)
			cartRoutes.GET("/summary", cartHandler.GetSummary)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.PUT("/items", cartHandler.UpdateItem)
			cartRoutes.DELETE("/items", cartHandler.RemoveItem)
			cartRoutes.DELETE("", cartHandler.ClearCart)
		}

		wishlist := v1.Group("/wishlist")
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("", wishlistHandler.AddToWishlist)
			wishlist.DELETE("/:id", wishlistHandler.RemoveFromWishlist)
		}

		checkoutRoutes := v1.Group("/checkout")
		checkoutRoutes.Use(middleware.CheckoutRateLimit())
		{
			checkoutRoutes.POST("/plan", checkoutHandler.PlanCheckout)
			checkoutRoutes.POST("/bundle", checkoutHandler.CreateBundle)
		}
	}

	return r
}
