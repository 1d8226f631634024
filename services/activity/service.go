// Package activity records who changed what in the registration domain.
// Entries are queued and written to the activity log by background workers.
package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when recording before Start or after Stop
	ErrNotStarted = errors.New("activity service not running")

	// ErrBufferFull is returned when the queue cannot take another entry
	ErrBufferFull = errors.New("activity buffer full")
)

// Service handles asynchronous activity logging
type Service struct {
	repo         repositories.ActivityRepository
	logger       *zap.Logger
	entries      chan *models.ActivityLog
	workerCount  int
	bufferSize   int
	writeTimeout time.Duration
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc

	// mu guards started/stopped and the close of entries
	mu      sync.RWMutex
	started bool
	stopped bool

	dropped atomic.Uint64
	written atomic.Uint64
	failed  atomic.Uint64
}

// Config holds configuration for the Service
type Config struct {
	BufferSize   int
	WorkerCount  int
	WriteTimeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:   1000,
		WorkerCount:  2,
		WriteTimeout: 5 * time.Second,
	}
}

// NewService creates a new Service instance
func NewService(repo repositories.ActivityRepository, logger *zap.Logger, config Config) *Service {
	defaults := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		repo:         repo,
		logger:       logger,
		entries:      make(chan *models.ActivityLog, config.BufferSize),
		workerCount:  config.WorkerCount,
		bufferSize:   config.BufferSize,
		writeTimeout: config.WriteTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("activity service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started activity service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting entries and waits up to timeout for the queue to drain
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.stopped = true
	close(s.entries)
	s.mu.Unlock()

	s.logger.Info("stopping activity service", zap.Int("pending_entries", len(s.entries)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("activity service stopped gracefully")
		s.cancel()
		return nil
	case <-time.After(timeout):
		s.cancel()
		return fmt.Errorf("activity service stop timeout after %v", timeout)
	}
}

// Record queues an entry without blocking. When the queue is full the entry
// is dropped and ErrBufferFull returned.
func (s *Service) Record(entry *models.ActivityLog) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.stopped {
		return ErrNotStarted
	}

	select {
	case s.entries <- entry:
		return nil
	default:
		s.dropped.Add(1)
		s.logger.Warn("activity buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("actor", entry.Actor))
		return ErrBufferFull
	}
}

func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("activity worker started", zap.Int("worker_id", id))

	for entry := range s.entries {
		if err := s.write(entry); err != nil {
			s.failed.Add(1)
			s.logger.Error("failed to write activity entry",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("action", string(entry.Action)),
				zap.String("actor", entry.Actor))
			continue
		}
		s.written.Add(1)
	}

	s.logger.Debug("activity worker stopped", zap.Int("worker_id", id))
}

func (s *Service) write(entry *models.ActivityLog) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.writeTimeout)
	defer cancel()

	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}

// GetStats returns statistics about the service
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:     s.bufferSize,
		PendingEntries: len(s.entries),
		WorkerCount:    s.workerCount,
		Started:        s.started && !s.stopped,
		Written:        s.written.Load(),
		Failed:         s.failed.Load(),
		Dropped:        s.dropped.Load(),
	}
}

// Stats represents activity service statistics
type Stats struct {
	BufferSize     int
	PendingEntries int
	WorkerCount    int
	Started        bool
	Written        uint64
	Failed         uint64
	Dropped        uint64
}
