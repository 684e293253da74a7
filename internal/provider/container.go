package provider

import (
	"time"

	"github.com/glowmart/glowmart-api/internal/authz"
	"github.com/glowmart/glowmart-api/internal/cache"
	"github.com/glowmart/glowmart-api/internal/config"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/queue"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/service"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"
	"github.com/glowmart/glowmart-api/internal/storage/supabase"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	ReviewRepo       repository.ReviewRepository
	CouponRepo       repository.CouponRepository
	ComboRepo        repository.ComboRepository
	GSTRepo          repository.GSTRepository
	OrderRepo        repository.OrderRepository
	WebhookEventRepo repository.WebhookEventRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	CategoryService    *service.CategoryService
	ProductService     *service.ProductService
	ReviewService      *service.ReviewService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	ComboService       *service.ComboService
	GSTService         *service.GSTService
	OrderService       *service.OrderService
	OrderExportService *service.OrderExportService
	ShipmentService    *service.ShipmentService
	UploadService      *service.UploadService
	DashboardService   *service.DashboardService
}

// NewContainer wires the whole dependency graph
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.ComboRepo = repository.NewComboRepository(db)
	c.GSTRepo = repository.NewGSTRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.WebhookEventRepo = repository.NewWebhookEventRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	carrier := shiprocket.NewClient(shiprocket.Config{
		BaseURL:    c.Config.Shiprocket.BaseURL,
		Email:      c.Config.Shiprocket.Email,
		Password:   c.Config.Shiprocket.Password,
		Timeout:    time.Duration(c.Config.Shiprocket.TimeoutMS) * time.Millisecond,
		TokenTTL:   time.Duration(c.Config.Shiprocket.TokenTTLHours) * time.Hour,
		RetryMax:   c.Config.Shiprocket.RetryMax,
		RetryDelay: time.Duration(c.Config.Shiprocket.RetryDelayMS) * time.Millisecond,
	})

	storage := supabase.NewClient(supabase.Config{
		URL:        c.Config.Storage.URL,
		ServiceKey: c.Config.Storage.ServiceKey,
		Bucket:     c.Config.Storage.Bucket,
		Timeout:    time.Duration(c.Config.Storage.TimeoutMS) * time.Millisecond,
	})

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.ReviewRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.ProductRepo)
	c.ComboService = service.NewComboService(c.ComboRepo, c.ProductRepo)
	c.GSTService = service.NewGSTService(c.GSTRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CouponService, c.GSTService)
	c.OrderExportService = service.NewOrderExportService(c.OrderRepo)
	c.ShipmentService = service.NewShipmentService(c.OrderRepo, c.WebhookEventRepo, carrier, c.QueueClient, c.Config.Shiprocket.PickupPIN)
	c.UploadService = service.NewUploadService(c.Config, storage)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
