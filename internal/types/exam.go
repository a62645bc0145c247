package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Exam is one teacher submission. Status follows the lifecycle
// UPLOADED -> ANALYZING -> {WAITING_DI_INPUT | GENERATING} -> GENERATING ->
// {READY | PARTIAL_READY}, with FAILED reachable from either in-flight state.
type Exam struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                      `gorm:"type:uuid;not null;index" json:"user_id"`
	Disciplina       string                         `gorm:"column:disciplina;not null;index" json:"disciplina"`
	AnoSerie         string                         `gorm:"column:ano_serie;not null;index" json:"ano_serie"`
	HabilidadeHint   *string                        `gorm:"column:habilidade_hint" json:"habilidade_hint,omitempty"`
	ConhecimentoHint *string                        `gorm:"column:conhecimento_hint" json:"conhecimento_hint,omitempty"`
	PdfBucket        string                         `gorm:"column:pdf_bucket;not null" json:"pdf_bucket"`
	PdfPath          string                         `gorm:"column:pdf_path;not null" json:"pdf_path"`
	BnccCode         *string                        `gorm:"column:bncc_code;index" json:"bncc_code,omitempty"`
	BnccDescription  *string                        `gorm:"column:bncc_description" json:"bncc_description,omitempty"`
	BnccConfidence   *float64                       `gorm:"column:bncc_confidence" json:"bncc_confidence,omitempty"`
	BloomLevel       *BloomLevel                    `gorm:"column:bloom_level" json:"bloom_level,omitempty"`
	BloomConfidence  *float64                       `gorm:"column:bloom_confidence" json:"bloom_confidence,omitempty"`
	BnccBloomReport  *string                        `gorm:"column:bncc_bloom_report_md" json:"bncc_bloom_report_md,omitempty"`
	EmentaReport     *string                        `gorm:"column:ementa_report_md" json:"ementa_report_md,omitempty"`
	Conditions       datatypes.JSONSlice[Condition] `gorm:"column:selected_conditions;not null" json:"selected_conditions"`
	Status           ExamStatus                     `gorm:"column:status;not null;index" json:"status"`
	AnalysisRunID    *string                        `gorm:"column:n8n_analysis_run_id" json:"n8n_analysis_run_id,omitempty"`
	GenerateRunID    *string                        `gorm:"column:n8n_generate_run_id" json:"n8n_generate_run_id,omitempty"`
	CreatedAt        time.Time                      `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time                      `gorm:"not null" json:"updated_at"`

	Versions []*ExamVersion `gorm:"foreignKey:ExamID;references:ID" json:"exam_versions,omitempty"`
}

func (Exam) TableName() string { return "exams" }

// HasDI reports whether the answer-dependent condition was requested; the
// lifecycle always detours through WAITING_DI_INPUT when it was.
func (e *Exam) HasDI() bool {
	return HasCondition(e.Conditions, ConditionDI)
}
