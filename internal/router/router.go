package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/app/controller"
	"github.com/ikkim/shopadmin-backend/internal/docs"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
)

// Controllers groups every HTTP handler set the router mounts.
type Controllers struct {
	User           *controller.UserController
	Customer       *controller.CustomerController
	ProductType    *controller.ProductTypeController
	Product        *controller.ProductController
	Order          *controller.OrderController
	Bundle         *controller.BundleController
	Collection     *controller.CollectionController
	PricingConfig  *controller.PricingConfigController
	DeliveryOption *controller.DeliveryOptionController
	Homepage       *controller.HomepageController
	MailingList    *controller.MailingListController
	Contact        *controller.ContactController
	Upload         *controller.UploadController
	LiveFeed       *controller.LiveFeedController
	Health         *controller.HealthController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	limiter        ratelimit.Limiter
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
	cfg *config.Config,
) *Router {
	if limiter == nil {
		limiter = ratelimit.NoopLimiter{}
	}
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		limiter:        limiter,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	ctl := r.controllers
	auth := r.authMiddleware
	plain := auth.Plain()
	rateLimited := middleware.RateLimit(r.limiter, nil)

	router.GET("/health", ctl.Health.Check)

	api := router.Group("/api")
	{
		api.GET("/swagger.json", docs.Spec)
		api.GET("/docs", docs.UI)

		users := api.Group("/users")
		{
			users.POST("/login", ctl.User.Login)
			users.POST("", plain.Require(middleware.SuperAdminOnly), ctl.User.Create)
			users.GET("/me", plain.Require(middleware.AdminType), ctl.User.Me)
			users.GET("", plain.Require(middleware.AdminType), ctl.User.List)
			users.GET("/:id", plain.Require(middleware.AdminType), ctl.User.Get)
			users.PUT("/:id", plain.Require(middleware.SuperAdminOnly), ctl.User.Update)
			users.DELETE("/:id", plain.Require(middleware.AdminType), ctl.User.Delete)
		}

		customers := api.Group("/customers")
		{
			customers.POST("/register", ctl.Customer.Register)
			customers.POST("/login", ctl.Customer.Login)

			me := customers.Group("/me", auth.Require(middleware.CustomerOnly))
			{
				me.GET("", ctl.Customer.Me)
				me.PUT("", ctl.Customer.UpdateMe)
				me.GET("/orders", ctl.Customer.MyOrders)
			}

			customers.GET("", auth.Require(middleware.AdminStaff), ctl.Customer.List)
			customers.GET("/:id", auth.Require(middleware.AdminStaff), ctl.Customer.Get)
			customers.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.Customer.Delete)
		}

		productTypes := api.Group("/product-types")
		{
			productTypes.GET("", ctl.ProductType.List)
			productTypes.GET("/:id", ctl.ProductType.Get)
			productTypes.POST("", auth.Require(middleware.AdminStaff), ctl.ProductType.Create)
			productTypes.PUT("/:id", auth.Require(middleware.AdminStaff), ctl.ProductType.Update)
			productTypes.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.ProductType.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", ctl.Product.List)
			products.GET("/featured", ctl.Product.Featured)
			products.GET("/search", ctl.Product.Search)
			products.GET("/type/:typeId", ctl.Product.ByType)
			products.GET("/low-stock", auth.Require(middleware.AdminStaff), ctl.Product.LowStock)
			products.GET("/stats", auth.Require(middleware.AdminStaff), ctl.Product.Stats)
			products.POST("/stock/bulk-update", auth.Require(middleware.AdminStaff), ctl.Product.BulkUpdateStock)
			products.GET("/:id", ctl.Product.Get)
			products.GET("/:id/similar", ctl.Product.Similar)
			products.GET("/:id/availability", ctl.Product.Availability)

			products.POST("", auth.Require(middleware.AdminStaff), ctl.Product.Create)
			products.PUT("/:id", auth.Require(middleware.AdminStaff), ctl.Product.Update)
			products.PATCH("/:id", auth.Require(middleware.AdminStaff), ctl.Product.Patch)
			products.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.Product.Delete)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", auth.OptionalAuthenticate(), ctl.Order.Create)
			orders.GET("/reference/:reference", ctl.Order.GetByReference)
			orders.GET("", auth.Require(middleware.AdminStaff), ctl.Order.List)
			orders.GET("/:id", auth.Require(middleware.AdminStaff), ctl.Order.Get)
			orders.PATCH("/:id/status", auth.Require(middleware.AdminStaff), ctl.Order.UpdateStatus)
			orders.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.Order.Delete)
		}

		bundles := api.Group("/bundles")
		{
			bundles.GET("", ctl.Bundle.List)
			bundles.GET("/stats/overview", auth.Require(middleware.AdminStaff), ctl.Bundle.Stats)
			bundles.GET("/similar-products/:productId", ctl.Bundle.SimilarProducts)
			bundles.GET("/:id", ctl.Bundle.Get)
			bundles.GET("/:id/price", ctl.Bundle.Price)

			admin := bundles.Group("", auth.Require(middleware.AdminStaff))
			{
				admin.POST("", ctl.Bundle.Create)
				admin.PUT("/:id", ctl.Bundle.Update)
				admin.DELETE("/:id", ctl.Bundle.Delete)
				admin.POST("/:id/products", ctl.Bundle.AddProduct)
				admin.POST("/:id/products/bulk", ctl.Bundle.AddProducts)
				admin.PUT("/:id/products/:productId", ctl.Bundle.UpdateProductQuantity)
				admin.DELETE("/:id/products/:productId", ctl.Bundle.RemoveProduct)
			}
		}

		collections := api.Group("/collections")
		{
			collections.GET("", ctl.Collection.List)
			collections.GET("/:id", ctl.Collection.Get)
			collections.GET("/:id/products", ctl.Collection.Products)

			admin := collections.Group("", auth.Require(middleware.AdminStaff))
			{
				admin.POST("", ctl.Collection.Create)
				admin.PUT("/:id", ctl.Collection.Update)
				admin.DELETE("/:id", ctl.Collection.Delete)
				admin.POST("/:id/products", ctl.Collection.AddProduct)
				admin.POST("/:id/products/bulk", ctl.Collection.AddProducts)
				admin.PUT("/:id/products/:productId", ctl.Collection.UpdateProductPosition)
				admin.DELETE("/:id/products/:productId", ctl.Collection.RemoveProduct)
			}
		}

		pricing := api.Group("/pricing-config")
		{
			pricing.GET("", ctl.PricingConfig.List)
			pricing.GET("/effective", ctl.PricingConfig.Effective)
			pricing.GET("/:id", ctl.PricingConfig.Get)
			pricing.POST("", plain.Require(middleware.AdminStaff), ctl.PricingConfig.Create)
			pricing.PUT("/:id", plain.Require(middleware.AdminStaff), ctl.PricingConfig.Update)
			pricing.DELETE("/:id", plain.Require(middleware.AdminStaff), ctl.PricingConfig.Delete)
		}

		delivery := api.Group("/delivery-options")
		{
			delivery.GET("", plain.OptionalAuthenticate(), ctl.DeliveryOption.List)
			delivery.GET("/:id", ctl.DeliveryOption.Get)
			delivery.POST("", plain.Require(middleware.AdminStaff), ctl.DeliveryOption.Create)
			delivery.PUT("/:id", plain.Require(middleware.AdminStaff), ctl.DeliveryOption.Update)
			delivery.DELETE("/:id", plain.Require(middleware.AdminStaff), ctl.DeliveryOption.Delete)
		}

		homepage := api.Group("/homepage-settings")
		{
			homepage.GET("", auth.OptionalAuthenticate(), ctl.Homepage.List)
			homepage.GET("/:sectionName", auth.OptionalAuthenticate(), ctl.Homepage.GetSection)
			homepage.POST("", auth.Require(middleware.AdminStaff), ctl.Homepage.Create)
			homepage.PUT("/:id", auth.Require(middleware.AdminStaff), ctl.Homepage.Update)
			homepage.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.Homepage.Delete)
		}

		mailing := api.Group("/mailing-list")
		{
			mailing.POST("", rateLimited, ctl.MailingList.Subscribe)
			mailing.GET("", auth.Require(middleware.AdminStaff), ctl.MailingList.List)
			mailing.DELETE("/:id", auth.Require(middleware.AdminStaff), ctl.MailingList.Delete)
		}

		api.POST("/contact-us", rateLimited, ctl.Contact.Submit)

		api.POST("/uploads/presigned-url", auth.Require(middleware.AdminStaff), ctl.Upload.PresignedURL)

		api.GET("/ws/admin", auth.RequireWebSocket(middleware.AdminStaff), ctl.LiveFeed.Connect)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
			"Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
