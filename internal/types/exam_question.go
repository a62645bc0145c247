package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ExamQuestion is one objective question extracted from the source PDF by the
// workflow engine. Rows are written once by the analyze callback; redelivery
// upserts on (exam_id, order_index).
type ExamQuestion struct {
	ID            uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	ExamID        uuid.UUID                           `gorm:"type:uuid;not null;index;uniqueIndex:ux_exam_question_order" json:"exam_id"`
	OrderIndex    int                                 `gorm:"column:order_index;not null;uniqueIndex:ux_exam_question_order" json:"order_index"`
	Prompt        string                              `gorm:"column:prompt;not null" json:"prompt"`
	Options       datatypes.JSONSlice[QuestionOption] `gorm:"column:options" json:"options"`
	QuestionType  string                              `gorm:"column:question_type" json:"question_type"`
	NeedsDiAnswer bool                                `gorm:"column:needs_di_answer;not null" json:"needs_di_answer"`
	CreatedAt     time.Time                           `gorm:"not null" json:"created_at"`
}

func (ExamQuestion) TableName() string { return "exam_questions" }
