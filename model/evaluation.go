package model

import "time"

// EvaluationType distinguishes mid-term from final assessments
type EvaluationType string

const (
	EvaluationMidTerm EvaluationType = "mid-term"
	EvaluationFinal   EvaluationType = "final"
)

// Valid reports whether t is a known evaluation type.
func (t EvaluationType) Valid() bool {
	return t == EvaluationMidTerm || t == EvaluationFinal
}

// Grade is the derived letter grade of an evaluation
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Evaluation is a scored assessment of a student's work by a faculty evaluator.
// At most one row exists per (student, evaluator, evaluation type).
type Evaluation struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	ProjectID           uint           `gorm:"not null;index" json:"projectId"`
	StudentID           uint           `gorm:"not null;uniqueIndex:idx_evaluation_key" json:"studentId"`
	EvaluatorID         uint           `gorm:"not null;uniqueIndex:idx_evaluation_key" json:"evaluatorId"`
	EvaluationType      EvaluationType `gorm:"type:varchar(20);not null;uniqueIndex:idx_evaluation_key" json:"evaluationType"`
	PresentationScore   float64        `json:"presentationScore"`
	ContentScore        float64        `json:"contentScore"`
	ResearchScore       float64        `json:"researchScore"`
	InnovationScore     float64        `json:"innovationScore"`
	ImplementationScore float64        `json:"implementationScore"`
	OverallScore        float64        `json:"overallScore"`
	OverallGrade        Grade          `gorm:"type:varchar(2);not null" json:"overallGrade"`
	Comments            string         `gorm:"type:text" json:"comments,omitempty"`
}

// TableName specifies the table name for Evaluation
func (Evaluation) TableName() string {
	return "evaluations"
}
