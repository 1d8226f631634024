package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityAction represents the type of mutating action being recorded
type ActivityAction string

const (
	ActivityLogin             ActivityAction = "login"
	ActivityLoginFailed       ActivityAction = "login_failed"
	ActivityLogout            ActivityAction = "logout"
	ActivityUserCreated       ActivityAction = "user_created"
	ActivityUserDeleted       ActivityAction = "user_deleted"
	ActivityCourseCreated     ActivityAction = "course_created"
	ActivityCourseUpdated     ActivityAction = "course_updated"
	ActivityCourseDeleted     ActivityAction = "course_deleted"
	ActivityGroupCreated      ActivityAction = "group_created"
	ActivityGroupUpdated      ActivityAction = "group_updated"
	ActivityGroupDeleted      ActivityAction = "group_deleted"
	ActivityEnrolled          ActivityAction = "enrolled"
	ActivityWithdrawn         ActivityAction = "withdrawn"
	ActivityMeetingCreated    ActivityAction = "meeting_created"
	ActivityMeetingUpdated    ActivityAction = "meeting_updated"
	ActivityMeetingDeleted    ActivityAction = "meeting_deleted"
	ActivityAttendanceChanged ActivityAction = "attendance_recorded"
	ActivityGradeAssigned     ActivityAction = "grade_assigned"
	ActivityGradeUpdated      ActivityAction = "grade_updated"
	ActivityGradeDeleted      ActivityAction = "grade_deleted"
)

// ActivityLog is an append-only record of who did what and when
type ActivityLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ActorID      *uuid.UUID      `json:"actor_id,omitempty" db:"actor_id"`
	Actor        string          `json:"actor" db:"actor"` // email, or the attempted email for failed logins
	Action       ActivityAction  `json:"action" db:"action"`
	ResourceType string          `json:"resource_type" db:"resource_type"`
	ResourceID   *uuid.UUID      `json:"resource_id,omitempty" db:"resource_id"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress    string          `json:"ip_address" db:"ip_address"`
	RequestID    string          `json:"request_id" db:"request_id"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_log"
}

// NewActivityLog creates a new ActivityLog instance
func NewActivityLog(actor string, action ActivityAction, resourceType string) *ActivityLog {
	return &ActivityLog{
		ID:           uuid.New(),
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		Timestamp:    time.Now(),
	}
}

// WithActor sets the acting user's ID
func (a *ActivityLog) WithActor(actorID uuid.UUID) *ActivityLog {
	a.ActorID = &actorID
	return a
}

// WithResource sets the resource ID
func (a *ActivityLog) WithResource(resourceID uuid.UUID) *ActivityLog {
	a.ResourceID = &resourceID
	return a
}

// WithRequest sets request metadata
func (a *ActivityLog) WithRequest(requestID, ipAddress string) *ActivityLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	return a
}

// WithDetails marshals details into the Details field
func (a *ActivityLog) WithDetails(details interface{}) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	a.Details = data
	return nil
}
