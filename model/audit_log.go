package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditDecision records whether an audited action went through
type AuditDecision string

const (
	AuditAllow AuditDecision = "allow"
	AuditDeny  AuditDecision = "deny"
)

// AuditLog is the audit trail for authorization denials and admin mutations
type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	ActorID      uint           `gorm:"index" json:"actorId"`
	ActorRole    Role           `gorm:"type:varchar(20)" json:"actorRole"`
	Action       string         `gorm:"type:varchar(100);not null" json:"action"` // e.g. "project:update-status", "user:delete"
	ResourceKind string         `gorm:"type:varchar(50)" json:"resourceKind"`
	ResourceID   uint           `json:"resourceId"`
	Decision     AuditDecision  `gorm:"type:varchar(10);not null" json:"decision"`
	Reason       string         `gorm:"type:varchar(100)" json:"reason,omitempty"`
	IPAddress    string         `gorm:"type:varchar(45)" json:"ipAddress,omitempty"`
	UserAgent    string         `gorm:"type:text" json:"userAgent,omitempty"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
