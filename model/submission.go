package model

import (
	"time"

	"github.com/lib/pq"
)

// SubmissionStatus is the review state of a final dissertation
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusReviewed SubmissionStatus = "reviewed"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusReviewed, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

// Submission is the final dissertation artifact of a project
type Submission struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	ProjectID      uint             `gorm:"not null;index" json:"projectId"`
	StudentID      uint             `gorm:"not null;index" json:"studentId"`
	Title          string           `gorm:"type:varchar(255);not null" json:"title"`
	Abstract       string           `gorm:"type:text;not null" json:"abstract"`
	Keywords       pq.StringArray   `gorm:"type:text[]" json:"keywords"`
	FileURL        string           `gorm:"type:text;not null" json:"fileUrl"`
	FileName       string           `gorm:"type:varchar(255)" json:"fileName"`
	FileSize       int64            `json:"fileSize"`
	FileKey        string           `gorm:"type:text" json:"-"`
	PageCount      int              `json:"pageCount"`
	Status         SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewComments string           `gorm:"type:text" json:"reviewComments,omitempty"`
	ReviewedBy     *uint            `json:"reviewedBy,omitempty"`
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}
