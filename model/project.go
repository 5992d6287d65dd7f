package model

import (
	"time"

	"github.com/lib/pq"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusApproved  ProjectStatus = "approved"
	ProjectStatusRejected  ProjectStatus = "rejected"
	ProjectStatusSubmitted ProjectStatus = "submitted"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusApproved, ProjectStatusRejected,
		ProjectStatusSubmitted, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is one student's dissertation proposal and its lifecycle
type Project struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string         `gorm:"type:text;not null" json:"description"`
	ProblemStatement string         `gorm:"type:text;not null" json:"problemStatement"`
	ExpectedOutcome  string         `gorm:"type:text;not null" json:"expectedOutcome"`
	Technologies     pq.StringArray `gorm:"type:text[]" json:"technologies"`
	Department       string         `gorm:"type:varchar(100);index" json:"department"`
	Branch           string         `gorm:"type:varchar(100);index" json:"branch,omitempty"` // legacy spelling of department
	StudentID        uint           `gorm:"not null;index" json:"student"`
	GuideID          *uint          `gorm:"index" json:"guide,omitempty"`
	HODAssignedID    *uint          `gorm:"index" json:"hodAssigned,omitempty"`
	PanelMembers     pq.Int64Array  `gorm:"type:bigint[]" json:"panelMembers,omitempty"`
	Status           ProjectStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Progress         int            `gorm:"default:0" json:"progress"`
	Feedback         string         `gorm:"type:text" json:"feedback,omitempty"`
	Comments         string         `gorm:"type:text" json:"comments,omitempty"`
	LastUpdated      time.Time      `json:"lastUpdated"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// DepartmentKeys returns the normalized department values of the project.
func (p *Project) DepartmentKeys() []string {
	return DepartmentKeys(p.Department, p.Branch)
}

// GuidedBy reports whether the project's guide is userID.
func (p *Project) GuidedBy(userID uint) bool {
	return p.GuideID != nil && *p.GuideID == userID
}

// HasPanelMember reports whether userID sits on the project's evaluation panel.
func (p *Project) HasPanelMember(userID uint) bool {
	for _, m := range p.PanelMembers {
		if uint(m) == userID {
			return true
		}
	}
	return false
}

// Guide returns the guide id or zero when none is assigned.
func (p *Project) Guide() uint {
	if p.GuideID == nil {
		return 0
	}
	return *p.GuideID
}
