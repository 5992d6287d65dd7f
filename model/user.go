package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"type:varchar(120);not null" json:"name"`
	Email        string         `gorm:"uniqueIndex:idx_users_email_active,where:deleted_at IS NULL;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Role         Role           `gorm:"type:varchar(20);not null;index" json:"role"`
	Department   string         `gorm:"type:varchar(100);index" json:"department,omitempty"`
	Branch       string         `gorm:"type:varchar(100);index" json:"branch,omitempty"` // legacy spelling of department
	Course       string         `gorm:"type:varchar(100)" json:"course,omitempty"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Faculty only
	AssignedStudents pq.Int64Array `gorm:"type:bigint[]" json:"assignedStudents,omitempty"`
	// Student only
	AssignedGuideID *uint `gorm:"index" json:"assignedGuide,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// DepartmentKeys returns the normalized department values the user is known by.
// Historical records populate either department or branch, so both are returned.
func (u *User) DepartmentKeys() []string {
	return DepartmentKeys(u.Department, u.Branch)
}

// HasAssignedStudent reports whether id is in the faculty member's assigned list.
func (u *User) HasAssignedStudent(id uint) bool {
	for _, s := range u.AssignedStudents {
		if uint(s) == id {
			return true
		}
	}
	return false
}

// AddAssignedStudent appends id to the assigned list unless already present.
func (u *User) AddAssignedStudent(id uint) {
	if u.HasAssignedStudent(id) {
		return
	}
	u.AssignedStudents = append(u.AssignedStudents, int64(id))
}

// RemoveAssignedStudent drops id from the assigned list. It reports whether anything changed.
func (u *User) RemoveAssignedStudent(id uint) bool {
	out := u.AssignedStudents[:0]
	removed := false
	for _, s := range u.AssignedStudents {
		if uint(s) == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	u.AssignedStudents = out
	return removed
}

// DepartmentKeys normalizes department/branch pairs into lower-cased, trimmed,
// de-duplicated keys. Empty values are dropped.
func DepartmentKeys(values ...string) []string {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		k := NormalizeDepartment(v)
		if k == "" {
			continue
		}
		dup := false
		for _, existing := range keys {
			if existing == k {
				dup = true
				break
			}
		}
		if !dup {
			keys = append(keys, k)
		}
	}
	return keys
}

// NormalizeDepartment is the single comparison form for department names.
func NormalizeDepartment(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
