package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Limitation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QaIssue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ExamVersion is one adapted document per (exam, condition). The generate
// callback upserts on that pair, so redelivery never duplicates rows.
type ExamVersion struct {
	ID           uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	ExamID       uuid.UUID                       `gorm:"type:uuid;not null;index;uniqueIndex:ux_exam_version_condition" json:"exam_id"`
	Condition    Condition                       `gorm:"column:condition;not null;uniqueIndex:ux_exam_version_condition" json:"condition"`
	Status       VersionStatus                   `gorm:"column:status;not null" json:"status"`
	GoogleDocID  *string                         `gorm:"column:google_doc_id" json:"google_doc_id,omitempty"`
	GoogleDocURL *string                         `gorm:"column:google_doc_url" json:"google_doc_url,omitempty"`
	Limitations  datatypes.JSONSlice[Limitation] `gorm:"column:limitations" json:"limitations,omitempty"`
	QaStatus     *string                         `gorm:"column:qa_status" json:"qa_status,omitempty"`
	QaScore      *float64                        `gorm:"column:qa_score" json:"qa_score,omitempty"`
	QaIssues     datatypes.JSONSlice[QaIssue]    `gorm:"column:qa_issues" json:"qa_issues,omitempty"`
	CreatedAt    time.Time                       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                       `gorm:"not null" json:"updated_at"`
}

func (ExamVersion) TableName() string { return "exam_versions" }
