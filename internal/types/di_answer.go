package types

import (
	"time"

	"github.com/google/uuid"
)

// DiAnswer maps one exam question to the teacher-supplied correct option key.
// Unique per (exam, question); resubmission overwrites.
type DiAnswer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExamID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_di_answer_exam_question" json:"exam_id"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_di_answer_exam_question" json:"question_id"`
	CorrectOptionKey string    `gorm:"column:correct_option_key;not null" json:"correct_option_key"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (DiAnswer) TableName() string { return "di_answers" }
