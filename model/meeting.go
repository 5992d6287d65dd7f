package model

import "time"

// MeetingStatus is the state of a guide/student checkpoint
type MeetingStatus string

const (
	MeetingStatusScheduled   MeetingStatus = "scheduled"
	MeetingStatusCompleted   MeetingStatus = "completed"
	MeetingStatusCancelled   MeetingStatus = "cancelled"
	MeetingStatusRescheduled MeetingStatus = "rescheduled"
	MeetingStatusPending     MeetingStatus = "pending"
)

// Valid reports whether s is a known meeting status.
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled,
		MeetingStatusRescheduled, MeetingStatusPending:
		return true
	}
	return false
}

// MeetingType is how a meeting is held
type MeetingType string

const (
	MeetingTypeOnline  MeetingType = "online"
	MeetingTypeOffline MeetingType = "offline"
	MeetingTypeHybrid  MeetingType = "hybrid"
)

const (
	MinMeetingNumber   = 1
	MaxMeetingNumber   = 4
	MinMeetingDuration = 15
	MaxMeetingDuration = 120
	DefaultDuration    = 30
)

// Meeting is a scheduled guide/student checkpoint, numbered 1-4 per project
type Meeting struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	MeetingNumber  int           `gorm:"not null;uniqueIndex:idx_meeting_project_number" json:"meetingNumber"`
	ScheduledDate  time.Time     `gorm:"not null;index" json:"scheduledDate"`
	Status         MeetingStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	StudentID      uint          `gorm:"not null;index" json:"studentId"`
	FacultyID      uint          `gorm:"not null;index" json:"facultyId"`
	ProjectID      uint          `gorm:"not null;uniqueIndex:idx_meeting_project_number" json:"projectId"`
	Notes          string        `gorm:"type:text" json:"notes,omitempty"`
	StudentPoints  string        `gorm:"type:text" json:"studentPoints,omitempty"`
	MeetingSummary string        `gorm:"type:text" json:"meetingSummary,omitempty"`
	GuideRemarks   string        `gorm:"type:text" json:"guideRemarks,omitempty"`
	MeetingType    MeetingType   `gorm:"type:varchar(20);default:'offline'" json:"meetingType"`
	Duration       int           `gorm:"default:30" json:"duration"`
	ReminderSent   bool          `gorm:"default:false" json:"-"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}
