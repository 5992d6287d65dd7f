package model

import "time"

// Progress is a student-submitted status update on a project. Rows are never updated.
type Progress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	ProjectID   uint      `gorm:"not null;index" json:"projectId"`
	StudentID   uint      `gorm:"not null;index" json:"studentId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Completion  int       `gorm:"not null" json:"completionPercentage"`
	Challenges  string    `gorm:"type:text" json:"challenges,omitempty"`
	NextSteps   string    `gorm:"type:text" json:"nextSteps,omitempty"`
}

// TableName specifies the table name for Progress
func (Progress) TableName() string {
	return "progress_updates"
}
