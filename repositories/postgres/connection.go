package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/student-registration/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// WrapDB wraps an already opened pool, such as a sqlmock connection in tests
func WrapDB(db *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck pings the database and runs a trivial query
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// InitSchema creates all tables and indexes if they do not exist
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

const schema = `
	-- Users table
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('student', 'teacher', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email));

	-- Courses table
	CREATE TABLE IF NOT EXISTS courses (
		id UUID PRIMARY KEY,
		code VARCHAR(20) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		credits INTEGER NOT NULL CHECK (credits BETWEEN 1 AND 30),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Course groups table
	CREATE TABLE IF NOT EXISTS course_groups (
		id UUID PRIMARY KEY,
		course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		semester VARCHAR(20) NOT NULL,
		teacher_id UUID REFERENCES users(id) ON DELETE SET NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (course_id, name, semester)
	);

	-- Enrollments table
	CREATE TABLE IF NOT EXISTS enrollments (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL REFERENCES course_groups(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (group_id, student_id)
	);

	-- Meetings table
	CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL REFERENCES course_groups(id) ON DELETE CASCADE,
		topic VARCHAR(255) NOT NULL,
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		room VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (ends_at > starts_at)
	);

	-- Attendance table
	CREATE TABLE IF NOT EXISTS attendance (
		id UUID PRIMARY KEY,
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL CHECK (status IN ('present', 'absent', 'late', 'excused')),
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (meeting_id, student_id)
	);

	-- Grades table
	CREATE TABLE IF NOT EXISTS grades (
		id UUID PRIMARY KEY,
		enrollment_id UUID NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
		value NUMERIC(3, 2) NOT NULL CHECK (value BETWEEN 2.0 AND 5.0),
		description VARCHAR(255) NOT NULL DEFAULT '',
		graded_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		graded_by UUID NOT NULL REFERENCES users(id)
	);

	-- Activity log table (no FKs: entries outlive the rows they describe)
	CREATE TABLE IF NOT EXISTS activity_log (
		id UUID PRIMARY KEY,
		actor_id UUID,
		actor VARCHAR(255) NOT NULL,
		action VARCHAR(50) NOT NULL,
		resource_type VARCHAR(50) NOT NULL,
		resource_id UUID,
		details JSONB,
		ip_address VARCHAR(45),
		request_id VARCHAR(255),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_groups_course_id ON course_groups(course_id);
	CREATE INDEX IF NOT EXISTS idx_groups_teacher_id ON course_groups(teacher_id);
	CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON enrollments(student_id);
	CREATE INDEX IF NOT EXISTS idx_meetings_group_id ON meetings(group_id);
	CREATE INDEX IF NOT EXISTS idx_meetings_starts_at ON meetings(starts_at);
	CREATE INDEX IF NOT EXISTS idx_attendance_student_id ON attendance(student_id);
	CREATE INDEX IF NOT EXISTS idx_grades_enrollment_id ON grades(enrollment_id);
	CREATE INDEX IF NOT EXISTS idx_activity_log_actor_id ON activity_log(actor_id);
	CREATE INDEX IF NOT EXISTS idx_activity_log_timestamp ON activity_log(timestamp);
`
