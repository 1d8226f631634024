package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is a student's presence at a meeting
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid reports whether s is a known status
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attendance records one student's status at one meeting.
// (meeting_id, student_id) is unique; recording again replaces the status.
type Attendance struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	MeetingID  uuid.UUID        `json:"meeting_id" db:"meeting_id"`
	StudentID  uuid.UUID        `json:"student_id" db:"student_id"`
	Status     AttendanceStatus `json:"status" db:"status"`
	RecordedAt time.Time        `json:"recorded_at" db:"recorded_at"`
}

// TableName returns the table name for the Attendance model
func (Attendance) TableName() string {
	return "attendance"
}

// NewAttendance creates a new Attendance instance
func NewAttendance(meetingID, studentID uuid.UUID, status AttendanceStatus) *Attendance {
	return &Attendance{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		StudentID:  studentID,
		Status:     status,
		RecordedAt: time.Now(),
	}
}
