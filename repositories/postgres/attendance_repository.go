package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const attendanceColumns = `id, meeting_id, student_id, status, recorded_at`

// AttendanceRepository implements the repositories.AttendanceRepository interface
type AttendanceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *DB, logger *zap.Logger) repositories.AttendanceRepository {
	return &AttendanceRepository{
		db:     db,
		logger: logger,
	}
}

func scanAttendance(s rowScanner) (*models.Attendance, error) {
	a := &models.Attendance{}
	if err := s.Scan(&a.ID, &a.MeetingID, &a.StudentID, &a.Status, &a.RecordedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// Upsert records a student's status at a meeting, replacing any earlier record
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	query := `
		INSERT INTO attendance (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meeting_id, student_id)
		DO UPDATE SET status = EXCLUDED.status, recorded_at = EXCLUDED.recorded_at
		RETURNING id, recorded_at
	`

	err := GetExecutor(ctx, r.db).
		QueryRowContext(ctx, query, a.ID, a.MeetingID, a.StudentID, a.Status, a.RecordedAt).
		Scan(&a.ID, &a.RecordedAt)
	if err != nil {
		return mapError("failed to upsert attendance", err)
	}

	r.logger.Debug("attendance recorded",
		zap.String("meeting_id", a.MeetingID.String()),
		zap.String("student_id", a.StudentID.String()),
		zap.String("status", string(a.Status)))
	return nil
}

// ListByMeeting retrieves the attendance sheet of a meeting
func (r *AttendanceRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*models.Attendance, error) {
	return r.list(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE meeting_id = $1 ORDER BY recorded_at`, meetingID)
}

// ListByStudent retrieves a student's attendance across all meetings
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error) {
	return r.list(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE student_id = $1 ORDER BY recorded_at DESC`, studentID)
}

func (r *AttendanceRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*models.Attendance, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError("failed to query attendance", err)
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}

	return records, nil
}
