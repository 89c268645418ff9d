package app

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/app/controller"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/router"
	"github.com/ikkim/shopadmin-backend/internal/storage"
	ws "github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
	"gorm.io/gorm"
)

// Dependencies are the infrastructure handles the HTTP application is built from.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Mailer  notify.Mailer
	SMS     notify.SMSSender
	Hub     *ws.Hub
	Storage storage.Presigner
	Limiter ratelimit.Limiter
}

// Application is the wired HTTP engine plus the services background jobs need.
type Application struct {
	Engine         *gin.Engine
	ProductService service.ProductService
}

// New builds repositories, services and controllers and mounts them on a gin engine.
func New(deps Dependencies) *Application {
	cfg := deps.Config
	database := deps.DB

	// Repositories
	userRepo := repository.NewUserRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	productTypeRepo := repository.NewProductTypeRepository(database)
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	bundleRepo := repository.NewBundleRepository(database)
	collectionRepo := repository.NewCollectionRepository(database)
	pricingRepo := repository.NewPricingConfigRepository(database)
	deliveryRepo := repository.NewDeliveryOptionRepository(database)
	homepageRepo := repository.NewHomepageSettingRepository(database)
	mailingRepo := repository.NewMailingListRepository(database)

	// Services
	var events service.EventPublisher
	if deps.Hub != nil {
		events = deps.Hub
	}

	userService := service.NewUserService(userRepo, deps.Mailer, deps.SMS, cfg.JWT.Secret, cfg.JWT.Expiry)
	customerService := service.NewCustomerService(customerRepo, deps.Mailer, cfg.JWT.Secret, cfg.JWT.Expiry)
	productTypeService := service.NewProductTypeService(database, productTypeRepo, productRepo)
	productService := service.NewProductService(
		database,
		productRepo,
		productTypeRepo,
		pricingRepo,
		deps.Mailer,
		events,
		service.ProductServiceConfig{
			LowStockThreshold: cfg.LowStock.Threshold,
			ReportRecipient:   cfg.Admin.Email,
		},
	)
	orderService := service.NewOrderService(database, orderRepo, productRepo, deliveryRepo, events, cfg.LowStock.Threshold)
	bundleService := service.NewBundleService(database, bundleRepo, productRepo)
	collectionService := service.NewCollectionService(database, collectionRepo, productRepo, productTypeRepo)
	pricingService := service.NewPricingConfigService(pricingRepo, productTypeRepo)
	deliveryService := service.NewDeliveryOptionService(deliveryRepo)
	homepageService := service.NewHomepageService(homepageRepo, productRepo)
	mailingService := service.NewMailingListService(mailingRepo)
	contactService := service.NewContactService(deps.Mailer, cfg.Contact.Recipient)

	hub := deps.Hub
	if hub == nil {
		hub = ws.NewHub()
	}

	controllers := router.Controllers{
		User:           controller.NewUserController(userService),
		Customer:       controller.NewCustomerController(customerService, orderService),
		ProductType:    controller.NewProductTypeController(productTypeService),
		Product:        controller.NewProductController(productService),
		Order:          controller.NewOrderController(orderService),
		Bundle:         controller.NewBundleController(bundleService),
		Collection:     controller.NewCollectionController(collectionService),
		PricingConfig:  controller.NewPricingConfigController(pricingService),
		DeliveryOption: controller.NewDeliveryOptionController(deliveryService),
		Homepage:       controller.NewHomepageController(homepageService),
		MailingList:    controller.NewMailingListController(mailingService),
		Contact:        controller.NewContactController(contactService),
		Upload:         controller.NewUploadController(deps.Storage),
		LiveFeed:       controller.NewLiveFeedController(hub),
		Health:         controller.NewHealthController(database),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	engine := router.NewRouter(controllers, authMiddleware, deps.Limiter, cfg).Setup()

	return &Application{
		Engine:         engine,
		ProductService: productService,
	}
}
