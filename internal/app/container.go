package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/config"
	httpx "github.com/you/leadsvc/internal/http"
	"github.com/you/leadsvc/internal/http/handlers"
	"github.com/you/leadsvc/internal/http/middleware"
	"github.com/you/leadsvc/internal/infrastructure/auth"
	"github.com/you/leadsvc/internal/infrastructure/database"
	"github.com/you/leadsvc/internal/infrastructure/events"
	"github.com/you/leadsvc/internal/infrastructure/logging"
	"github.com/you/leadsvc/internal/infrastructure/notifications"
	"github.com/you/leadsvc/internal/infrastructure/repositories"
	"github.com/you/leadsvc/internal/services"
)

const readyTimeout = 30 * time.Second

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo    domain.UserRepository
	BookingRepo domain.BookingRepository
	SessionRepo domain.SessionRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	Publisher       domain.BookingPublisher
	Audit           domain.AuditLogger
	VerificationSvc domain.VerificationService
	AuthSvc         domain.AuthService
	BookingSvc      domain.BookingService
	ExportSvc       domain.ExportService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	switch c.Config.DatabaseDriver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, c.Config.MongoURI, c.Config.MongoConnectTimeout)
		if err != nil {
			return err
		}
		c.MongoClient = client

		db := client.Database(c.Config.MongoDatabase)
		users := repositories.NewMongoUserRepository(db)
		bookings := repositories.NewMongoBookingRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("user indexes: %w", err)
		}
		if err := bookings.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("booking indexes: %w", err)
		}
		c.UserRepo = users
		c.BookingRepo = bookings
		c.Logger.Info("connected to mongodb", zap.String("database", c.Config.MongoDatabase))

	default:
		db, err := database.Open(c.Config.DatabaseDriver, c.Config.DSN)
		if err != nil {
			return err
		}
		c.DB = db
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		c.UserRepo = repositories.NewUserRepository(db)
		c.BookingRepo = repositories.NewBookingRepository(db)
		c.Logger.Info("connected to sql database", zap.String("driver", c.Config.DatabaseDriver))
	}

	// casbin policies live next to the users in SQL; with mongo they are in memory
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	rc := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	c.RedisClient = rc.Client
	if err := rc.WaitReady(ctx, readyTimeout); err != nil {
		return err
	}
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.AccessTTL)
	return nil
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	c.Audit = logging.NewAuditLogger(c.Logger)

	mailer := notifications.NewMailer(notifications.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, c.Logger)
	sms := notifications.NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Logger)
	c.NotificationSvc = notifications.NewNotifier(mailer, sms)

	if len(cfg.KafkaBrokers) > 0 {
		c.Publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		c.Publisher = events.NewLogPublisher(c.Logger)
	}

	c.VerificationSvc = services.NewVerificationService(
		c.UserRepo,
		c.NotificationSvc,
		c.RedisClient,
		c.Audit,
		c.Logger,
		services.VerificationConfig{
			TTL:          cfg.VerificationTTL,
			ResendWindow: cfg.VerificationResend,
		},
	)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.VerificationSvc,
		c.Audit,
		c.Logger,
		cfg.IsAdminEmail,
	)

	bookingSvc := services.NewBookingService(
		c.BookingRepo,
		c.NotificationSvc,
		c.Publisher,
		c.Audit,
		c.Logger,
		services.BookingConfig{
			IDPrefix: cfg.BookingIDPrefix,
			Location: cfg.BookingLocation,
		},
	)
	c.BookingSvc = bookingSvc
	c.ExportSvc = services.NewExportService(bookingSvc)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	return nil
}

// Router builds the HTTP handler tree
func (c *Container) Router() *gin.Engine {
	return httpx.BuildRouter(httpx.RouterDeps{
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, c.Logger),
		Bookings:  handlers.NewBookingHandlers(c.BookingSvc, c.ExportSvc, c.Logger),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc),
		JWT:       middleware.NewAuthMW(c.TokenSvc, c.SessionRepo),
		Casbin:    middleware.NewCasbinMW(c.PolicySvc),
		RateLimit: middleware.NewRateLimiter(c.RedisClient, "ratelimit:auth", c.Config.RateLimit, c.Config.RateLimitWindow, c.Logger),
		ClientURL: c.Config.ClientURL,
		Logger:    c.Logger,
	})
}

// Close closes all connections
func (c *Container) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.Publisher != nil {
		keep(c.Publisher.Close())
	}
	if c.RedisClient != nil {
		keep(c.RedisClient.Close())
	}
	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		keep(c.MongoClient.Disconnect(ctx))
		cancel()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			keep(err)
		} else {
			keep(sqlDB.Close())
		}
	}

	return firstErr
}
