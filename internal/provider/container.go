package provider

import (
	"github.com/carman72tmn/foodtech/internal/cache"
	"github.com/carman72tmn/foodtech/internal/config"
	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/queue"
	"github.com/carman72tmn/foodtech/internal/repository"
	"github.com/carman72tmn/foodtech/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	IikoClient  *iiko.Client

	// Repositories
	CustomerRepo     repository.CustomerRepository
	BranchRepo       repository.BranchRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	PromoCodeRepo    repository.PromoCodeRepository
	ActionRepo       repository.ActionRepository
	OrderRepo        repository.OrderRepository
	SyncLogRepo      repository.SyncLogRepository
	WebhookEventRepo repository.WebhookEventRepository

	// Services
	PricingService    *service.PricingService
	LoyaltyService    *service.LoyaltyService
	OrderService      *service.OrderService
	SubmissionService *service.SubmissionService
	ReconcileService  *service.ReconcileService
	SyncService       *service.SyncService
	MonitorService    *service.MonitorService
	CartService       *service.CartService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	iikoClient, err := iiko.NewClient(iiko.Config{
		BaseURL:         cfg.Iiko.BaseURL,
		APILogin:        cfg.Iiko.APILogin,
		OrganizationID:  cfg.Iiko.OrganizationID,
		TerminalGroupID: cfg.Iiko.TerminalGroupID,
		Timeout:         cfg.Iiko.Timeout(),
	})
	if err != nil {
		// POS-facing operations degrade gracefully on a nil client, local
		// ordering and catalog browsing keep working.
		logger.Warnw("provider_init_iiko_failed", "error", err)
	} else {
		c.IikoClient = iikoClient
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.BranchRepo = repository.NewBranchRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.ActionRepo = repository.NewActionRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SyncLogRepo = repository.NewSyncLogRepository(db)
	c.WebhookEventRepo = repository.NewWebhookEventRepository(db)
}

func (c *Container) initServices() {
	c.PricingService = service.NewPricingService(c.ProductRepo, c.PromoCodeRepo, c.ActionRepo, c.OrderRepo)
	c.LoyaltyService = service.NewLoyaltyService(c.IikoClient, c.CustomerRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CustomerRepo,
		c.BranchRepo,
		c.PromoCodeRepo,
		c.PricingService,
		c.LoyaltyService,
		c.QueueClient,
		c.IikoClient,
	)
	c.SubmissionService = service.NewSubmissionService(
		c.OrderRepo,
		c.ProductRepo,
		c.IikoClient,
		c.Config.Iiko.Submission.Attempts,
		c.Config.Iiko.Submission.RetryDelay(),
	)
	c.ReconcileService = service.NewReconcileService(c.OrderRepo, c.CustomerRepo, c.BranchRepo, c.WebhookEventRepo, c.QueueClient)
	c.SyncService = service.NewSyncService(c.IikoClient, c.CategoryRepo, c.ProductRepo, c.SyncLogRepo)
	c.MonitorService = service.NewMonitorService(c.OrderRepo, c.IikoClient, c.ReconcileService)

	var cartStore service.CartStore
	if cache.Enabled() {
		cartStore = service.NewRedisCartStore(c.Config.Cart.TTL())
	} else {
		cartStore = service.NewMemoryCartStore(c.Config.Cart.TTL())
	}
	c.CartService = service.NewCartService(cartStore, c.ProductRepo)
}
