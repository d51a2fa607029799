package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"moments-backend/internal/config"
	"moments-backend/internal/infrastructure/cache"
	"moments-backend/internal/infrastructure/database"
	"moments-backend/internal/infrastructure/queue"
	"moments-backend/internal/infrastructure/realtime"
	"moments-backend/internal/infrastructure/storage"
	"moments-backend/pkg/jwt"
	"moments-backend/pkg/logger"
	"moments-backend/pkg/ratelimit"

	applicationHandler "moments-backend/internal/domains/application/handler"
	applicationRepo "moments-backend/internal/domains/application/repository"
	applicationService "moments-backend/internal/domains/application/service"
	blockHandler "moments-backend/internal/domains/block/handler"
	blockRepo "moments-backend/internal/domains/block/repository"
	blockService "moments-backend/internal/domains/block/service"
	commentHandler "moments-backend/internal/domains/comment/handler"
	commentRepo "moments-backend/internal/domains/comment/repository"
	commentService "moments-backend/internal/domains/comment/service"
	conversationHandler "moments-backend/internal/domains/conversation/handler"
	conversationRepo "moments-backend/internal/domains/conversation/repository"
	conversationService "moments-backend/internal/domains/conversation/service"
	expiryHandler "moments-backend/internal/domains/expiry/handler"
	expiryRepo "moments-backend/internal/domains/expiry/repository"
	expiryService "moments-backend/internal/domains/expiry/service"
	followHandler "moments-backend/internal/domains/follow/handler"
	followRepo "moments-backend/internal/domains/follow/repository"
	followService "moments-backend/internal/domains/follow/service"
	momentHandler "moments-backend/internal/domains/moment/handler"
	momentRepo "moments-backend/internal/domains/moment/repository"
	momentService "moments-backend/internal/domains/moment/service"
	notificationHandler "moments-backend/internal/domains/notification/handler"
	notificationRepo "moments-backend/internal/domains/notification/repository"
	notificationService "moments-backend/internal/domains/notification/service"
	postHandler "moments-backend/internal/domains/post/handler"
	postModel "moments-backend/internal/domains/post/model"
	postRepo "moments-backend/internal/domains/post/repository"
	postService "moments-backend/internal/domains/post/service"
	profileHandler "moments-backend/internal/domains/profile/handler"
	profileRepo "moments-backend/internal/domains/profile/repository"
	profileService "moments-backend/internal/domains/profile/service"
	reportHandler "moments-backend/internal/domains/report/handler"
	reportRepo "moments-backend/internal/domains/report/repository"
	reportService "moments-backend/internal/domains/report/service"
	reviewHandler "moments-backend/internal/domains/review/handler"
	reviewRepo "moments-backend/internal/domains/review/repository"
	reviewService "moments-backend/internal/domains/review/service"
)

const avatarMaxBytes = 5 << 20

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by cmd/api,
// cmd/worker and cmd/momentctl.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      *cache.RedisCache
	JWTManager *jwt.Manager
	Storage    *storage.MinIOStorage
	Queue      *queue.Client
	Hub        *realtime.Hub
	Broker     *realtime.RedisBroker
	Quotas     *ratelimit.Policy

	// ========================================
	// SERVICE LAYER
	// ========================================
	ProfileService      profileService.ServiceInterface
	BlockService        blockService.ServiceInterface
	NotificationService notificationService.NotificationService
	FollowService       followService.ServiceInterface
	MomentService       momentService.ServiceInterface
	ApplicationService  applicationService.ServiceInterface
	ConversationService conversationService.ServiceInterface
	ReviewService       reviewService.ServiceInterface
	ReportService       reportService.ServiceInterface
	PostService         postService.ServiceInterface
	CommentService      commentService.ServiceInterface
	ExpiryService       *expiryService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	ProfileHandler      *profileHandler.ProfileHandler
	BlockHandler        *blockHandler.BlockHandler
	NotificationHandler *notificationHandler.NotificationHandler
	FollowHandler       *followHandler.FollowHandler
	MomentHandler       *momentHandler.MomentHandler
	ApplicationHandler  *applicationHandler.ApplicationHandler
	ConversationHandler *conversationHandler.ConversationHandler
	ReviewHandler       *reviewHandler.ReviewHandler
	ReportHandler       *reportHandler.ReportHandler
	PostHandler         *postHandler.PostHandler
	CommentHandler      *commentHandler.CommentHandler
	ExpiryHandler       *expiryHandler.ExpiryHandler
	RealtimeHandler     *realtime.Handler
}

// NewContainer builds the whole graph in dependency order:
// config, infrastructure, services, handlers.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("[CONTAINER] Config loaded", map[string]interface{}{"env": cfg.App.Environment})

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 4: HANDLERS
	// ========================================
	c.initHandlers()

	logger.Info("[CONTAINER] Initialized", map[string]interface{}{})
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// Database
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Redis backs the cache, the quota counters and realtime fan-out.
	c.Cache = cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	objectStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = objectStorage

	c.Queue = queue.NewClient(c.RedisOpt())
	c.Hub = realtime.NewHub()
	c.Broker = realtime.NewRedisBroker(c.Cache.Client())

	c.Quotas = ratelimit.NewPolicy(ratelimit.NewLimiter(c.Cache, "rl"), ratelimit.Quotas{
		MomentBase:          cfg.Limits.MomentBase,
		MomentPerTrustLevel: cfg.Limits.MomentPerTrustLevel,
		MomentVerifiedBonus: cfg.Limits.MomentVerifiedBonus,
		MomentWindow:        cfg.Limits.MomentWindow,
		ApplyBase:           cfg.Limits.ApplyBase,
		ApplyPerTrustLevel:  cfg.Limits.ApplyPerTrustLevel,
		ApplyWindow:         cfg.Limits.ApplyWindow,
	})

	return nil
}

func (c *Container) initServices() {
	pool := c.DB.Pool
	cfg := c.Config

	c.NotificationService = notificationService.NewNotificationService(
		notificationRepo.NewPostgresNotificationRepository(pool),
		c.Broker,
	)

	c.ProfileService = profileService.NewProfileService(
		profileRepo.NewPostgresProfileRepository(pool),
		c.Cache,
		c.JWTManager,
		c.Storage,
		storage.NewImageProcessor(avatarMaxBytes),
		cfg.MinIO.AvatarBucket,
	)

	c.BlockService = blockService.NewBlockService(blockRepo.NewPostgresBlockRepository(pool))

	c.FollowService = followService.NewFollowService(
		followRepo.NewPostgresFollowRepository(pool),
		c.NotificationService,
	)

	c.MomentService = momentService.NewMomentService(
		momentRepo.NewPostgresMomentRepository(pool),
		c.Quotas,
		cfg.Feed,
	)

	c.ApplicationService = applicationService.NewApplicationService(
		applicationRepo.NewPostgresApplicationRepository(pool),
		c.BlockService,
		c.Quotas,
		c.NotificationService,
	)

	c.ConversationService = conversationService.NewConversationService(
		conversationRepo.NewPostgresConversationRepository(pool),
		c.BlockService,
		c.Broker,
	)

	c.ReviewService = reviewService.NewReviewService(reviewRepo.NewPostgresReviewRepository(pool))
	c.ReportService = reportService.NewReportService(reportRepo.NewPostgresReportRepository(pool))

	c.PostService = postService.NewPostService(
		postRepo.NewPostgresPostRepository(pool),
		postRepo.NewPostgresAttachmentRepository(pool),
		c.Storage,
		storage.NewImageProcessor(postModel.MaxAttachmentBytes),
		c.Queue,
		c.NotificationService,
		cfg.MinIO.AttachmentBucket,
		cfg.Feed.PostPageSize,
	)

	c.CommentService = commentService.NewCommentService(
		commentRepo.NewPostgresCommentRepository(pool),
		c.NotificationService,
	)

	c.ExpiryService = expiryService.NewService(
		expiryRepo.NewPostgresExpiryRepository(pool),
		c.NotificationService,
	)
}

func (c *Container) initHandlers() {
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.BlockHandler = blockHandler.NewBlockHandler(c.BlockService)
	c.NotificationHandler = notificationHandler.NewNotificationHandler(c.NotificationService)
	c.FollowHandler = followHandler.NewFollowHandler(c.FollowService)
	c.MomentHandler = momentHandler.NewMomentHandler(c.MomentService)
	c.ApplicationHandler = applicationHandler.NewApplicationHandler(c.ApplicationService)
	c.ConversationHandler = conversationHandler.NewConversationHandler(c.ConversationService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.ExpiryHandler = expiryHandler.NewExpiryHandler(c.ExpiryService)
	c.RealtimeHandler = realtime.NewHandler(c.Hub, c.JWTManager, c.Config.App.CORSOrigins)
}

// RedisOpt is the asynq connection to the configured Redis.
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// Cleanup releases every connection the container opened. Safe on a
// partially built container.
func (c *Container) Cleanup() {
	if c.Hub != nil {
		c.Hub.Close()
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("[CONTAINER] Failed to close queue client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("[CONTAINER] Failed to close redis", err)
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	logger.Info("[CONTAINER] Cleanup completed", map[string]interface{}{})
}
