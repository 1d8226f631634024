package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/student-registration/config"
	"github.com/upb/student-registration/repositories/postgres"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewDependenciesWithFactory(t *testing.T) {
	t.Run("wires every component", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		mr := miniredis.RunT(t)
		cfg.Redis.Addr = mr.Addr()
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		deps, err := NewDependenciesWithFactory(ctx, cfg, factory, zaptest.NewLogger(t))
		require.NoError(t, err)

		// Verify infrastructure
		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.Redis)
		assert.NotNil(t, deps.Repos)
		assert.NotNil(t, deps.TxManager)

		// Verify auth
		assert.NotNil(t, deps.TokenCodec)
		assert.Equal(t, "sessionToken", deps.CookieBridge.Name())
		assert.NotNil(t, deps.Throttle)
		assert.NotNil(t, deps.AuthMiddleware)

		// Verify services
		assert.NotNil(t, deps.Activity)
		assert.NotNil(t, deps.AuthService)
		assert.NotNil(t, deps.UserService)
		assert.NotNil(t, deps.CourseService)
		assert.NotNil(t, deps.GroupService)
		assert.NotNil(t, deps.EnrollmentService)
		assert.NotNil(t, deps.MeetingService)
		assert.NotNil(t, deps.AttendanceService)
		assert.NotNil(t, deps.GradeService)

		mock.ExpectClose()
		require.NoError(t, deps.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("throttling disabled without redis", func(t *testing.T) {
		ctx := context.Background()
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		deps, err := NewDependenciesWithFactory(ctx, testConfig(t), factory, zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.Nil(t, deps.Redis)
		assert.Nil(t, deps.Throttle)

		mock.ExpectClose()
		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("unreachable redis is not fatal", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Redis.Addr = "127.0.0.1:1"
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		deps, err := NewDependenciesWithFactory(ctx, cfg, factory, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.NotNil(t, deps.Throttle)

		mock.ExpectClose()
		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("creates schema when configured", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Database.InitSchema = true
		factory, mock := mockFactory(t)
		mock.ExpectPing()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))

		deps, err := NewDependenciesWithFactory(ctx, cfg, factory, zaptest.NewLogger(t))
		require.NoError(t, err)

		mock.ExpectClose()
		assert.NoError(t, deps.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database ping failure", func(t *testing.T) {
		factory, mock := mockFactory(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		deps, err := NewDependenciesWithFactory(context.Background(), testConfig(t), factory, zaptest.NewLogger(t))
		assert.Nil(t, deps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})

	t.Run("schema failure", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database.InitSchema = true
		factory, mock := mockFactory(t)
		mock.ExpectPing()
		mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

		_, err := NewDependenciesWithFactory(context.Background(), cfg, factory, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("missing signing key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Auth.SecretKey = nil
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		_, err := NewDependenciesWithFactory(context.Background(), cfg, factory, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize auth")
	})
}

func TestNewDependencies(t *testing.T) {
	t.Run("database connection failure", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database.Host = "invalid-host-that-does-not-exist"

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestDependenciesClose(t *testing.T) {
	t.Run("reports database close failure", func(t *testing.T) {
		ctx := context.Background()
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		deps, err := NewDependenciesWithFactory(ctx, testConfig(t), factory, zap.NewNop())
		require.NoError(t, err)

		mock.ExpectClose().WillReturnError(errors.New("close failed"))
		err = deps.Close(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close database")
	})

	t.Run("uses the context deadline for the activity drain", func(t *testing.T) {
		factory, mock := mockFactory(t)
		mock.ExpectPing()

		deps, err := NewDependenciesWithFactory(context.Background(), testConfig(t), factory, zap.NewNop())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		mock.ExpectClose()
		assert.NoError(t, deps.Close(ctx))
		assert.Equal(t, uint64(0), deps.Activity.GetStats().Dropped)
	})
}

func mockFactory(t *testing.T) (*postgres.RepositoryFactory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	logger := zap.NewNop()
	return postgres.NewRepositoryFactoryWithDB(postgres.WrapDB(db, logger), logger), mock
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "registration",
			Password:        "registration",
			Database:        "registration_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: config.AuthConfig{
			SecretKey:            []byte("0123456789abcdef0123456789abcdef"),
			TokenTTL:             time.Hour,
			CookieName:           "sessionToken",
			PrincipalLoadTimeout: time.Second,
			BcryptCost:           4,
		},
		Throttle: config.ThrottleConfig{
			MaxLoginAttempts: 5,
			LoginWindow:      15 * time.Minute,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}
