package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/config"
	"github.com/upb/student-registration/middleware"
	"github.com/upb/student-registration/repositories"
	"github.com/upb/student-registration/repositories/postgres"
	"github.com/upb/student-registration/services"
	"github.com/upb/student-registration/services/activity"
	"github.com/upb/student-registration/services/throttle"
	"go.uber.org/zap"
)

// activityStopTimeout bounds how long Close waits for queued activity entries
// when the shutdown context carries no deadline.
const activityStopTimeout = 5 * time.Second

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Redis  *redis.Client // nil when throttling is disabled
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Auth
	TokenCodec     *auth.TokenCodec
	CookieBridge   *auth.CookieBridge
	Throttle       *throttle.Limiter // nil when throttling is disabled
	AuthMiddleware *middleware.AuthMiddleware

	// Background workers
	Activity *activity.Service

	// Services
	AuthService       *services.AuthService
	UserService       *services.UserService
	CourseService     *services.CourseService
	GroupService      *services.GroupService
	EnrollmentService *services.EnrollmentService
	MeetingService    *services.MeetingService
	AttendanceService *services.AttendanceService
	GradeService      *services.GradeService
}

// NewDependencies opens the database described by cfg and wires up all
// application dependencies on top of it.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesWithFactory(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithFactory wires all application dependencies over an
// existing repository factory. The caller keeps ownership of factory on error.
func NewDependenciesWithFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.initThrottle(ctx, cfg)

	if err := deps.initActivity(); err != nil {
		_ = deps.closeRedis()
		return nil, fmt.Errorf("failed to initialize activity log: %w", err)
	}

	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase verifies the connection and creates the schema when asked to
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.Database.InitSchema {
		if err := d.RepoFactory.InitSchema(ctx); err != nil {
			return err
		}
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

// initAuth builds the token codec and cookie bridge
func (d *Dependencies) initAuth(cfg *config.Config) error {
	codec, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	d.TokenCodec = codec
	d.CookieBridge = auth.NewCookieBridge(cfg.Auth.CookieName, cfg.Auth.TokenTTL, cfg.Auth.CookieSecure)
	return nil
}

// initThrottle connects to Redis for login throttling. An unreachable Redis is
// logged but not fatal: the limiter fails open.
func (d *Dependencies) initThrottle(ctx context.Context, cfg *config.Config) {
	if !cfg.ThrottleEnabled() {
		d.Logger.Warn("redis not configured, login throttling disabled")
		return
	}

	d.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	d.Throttle = throttle.New(d.Redis, throttle.Config{
		MaxLoginAttempts: cfg.Throttle.MaxLoginAttempts,
		Window:           cfg.Throttle.LoginWindow,
		EnableIPThrottle: true,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Throttle.Ping(pingCtx); err != nil {
		d.Logger.Warn("redis unreachable, login throttling will fail open",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err))
		return
	}
	d.Logger.Info("login throttling enabled",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("max_attempts", cfg.Throttle.MaxLoginAttempts),
		zap.Duration("window", cfg.Throttle.LoginWindow))
}

// initActivity starts the asynchronous activity log writer
func (d *Dependencies) initActivity() error {
	d.Activity = activity.NewService(d.Repos.Activity, d.Logger, activity.DefaultConfig())
	return d.Activity.Start()
}

// initServices builds the domain services and the authentication gate
func (d *Dependencies) initServices(cfg *config.Config) {
	// a nil *throttle.Limiter must not reach the interface
	var loginThrottle services.LoginThrottle
	if d.Throttle != nil {
		loginThrottle = d.Throttle
	}

	d.AuthService = services.NewAuthService(d.Repos.Users, d.TokenCodec, loginThrottle, d.Activity, cfg.Auth.BcryptCost, d.Logger)
	d.UserService = services.NewUserService(d.Repos.Users, d.Repos.Activity, d.Activity, d.Logger)
	d.CourseService = services.NewCourseService(d.Repos.Courses, d.Activity, d.Logger)
	d.GroupService = services.NewGroupService(d.Repos, d.Activity, d.Logger)
	d.EnrollmentService = services.NewEnrollmentService(d.TxManager, d.Repos, d.Activity, d.Logger)
	d.MeetingService = services.NewMeetingService(d.Repos, d.Activity, d.Logger)
	d.AttendanceService = services.NewAttendanceService(d.TxManager, d.Repos, d.Activity, d.Logger)
	d.GradeService = services.NewGradeService(d.Repos, d.Activity, d.Logger)

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.CookieBridge, d.TokenCodec, d.AuthService, cfg.Auth.PrincipalLoadTimeout, d.Logger)
	d.Logger.Info("services initialized")
}

func (d *Dependencies) closeRedis() error {
	if d.Redis == nil {
		return nil
	}
	return d.Redis.Close()
}

// Close gracefully shuts down all dependencies. Queued activity entries are
// flushed before the database is closed.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Activity != nil {
		timeout := activityStopTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Activity.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop activity log: %w", err))
		}
	}

	if err := d.closeRedis(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
