package n8n

import "github.com/provadapt/provadapt-backend/internal/types"

// Wire contract with the n8n workflow engine. Outbound payloads are POSTed to
// the analyze/generate webhooks with the app secret header; the engine calls
// back on /api/n8n/callback with the callback secret header.

const (
	EventAnalyze        = "analyze_exam"
	EventGenerate       = "generate_exam_versions"
	EventAnalyzeResult  = "analyze_exam_result"
	EventGenerateResult = "generate_exam_versions_result"

	CallbackSecretHeader = "X-N8N-SECRET"
	appSecretHeader      = "X-APP-SECRET"

	StatusOK    = "OK"
	StatusError = "ERROR"
)

type UserRef struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
}

type ExamMetadata struct {
	Disciplina       string  `json:"disciplina"`
	AnoSerie         string  `json:"ano_serie"`
	HabilidadeHint   *string `json:"habilidade_hint,omitempty"`
	ConhecimentoHint *string `json:"conhecimento_hint,omitempty"`
}

type PdfRef struct {
	StorageBucket string `json:"storage_bucket,omitempty"`
	StoragePath   string `json:"storage_path,omitempty"`
	SignedURL     string `json:"signed_url"`
}

type CallbackRef struct {
	URL              string `json:"url"`
	SecretHeaderName string `json:"secret_header_name"`
}

type BnccRef struct {
	Code        string   `json:"code"`
	Description *string  `json:"description,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

type BloomRef struct {
	Level      types.BloomLevel `json:"level"`
	Confidence *float64         `json:"confidence,omitempty"`
}

type DiAnswerRef struct {
	QuestionID       string `json:"question_id"`
	CorrectOptionKey string `json:"correct_option_key"`
}

type AnalyzePayload struct {
	Event              string            `json:"event"`
	ExamID             string            `json:"exam_id"`
	User               UserRef           `json:"user"`
	Metadata           ExamMetadata      `json:"metadata"`
	SelectedConditions []types.Condition `json:"selected_conditions"`
	Pdf                PdfRef            `json:"pdf"`
	Callback           CallbackRef       `json:"callback"`
}

type GeneratePayload struct {
	Event              string            `json:"event"`
	ExamID             string            `json:"exam_id"`
	User               UserRef           `json:"user"`
	SelectedConditions []types.Condition `json:"selected_conditions"`
	Metadata           ExamMetadata      `json:"metadata"`
	Bncc               *BnccRef          `json:"bncc,omitempty"`
	Bloom              *BloomRef         `json:"bloom,omitempty"`
	DiAnswers          []DiAnswerRef     `json:"di_answers,omitempty"`
	Pdf                PdfRef            `json:"pdf"`
	Callback           CallbackRef       `json:"callback"`
}

type AckResponse struct {
	Accepted bool   `json:"accepted"`
	ExamID   string `json:"exam_id"`
	RunID    string `json:"n8n_run_id"`
}

// CallbackEnvelope is decoded first to discriminate inbound events.
type CallbackEnvelope struct {
	Event  string `json:"event"`
	ExamID string `json:"exam_id"`
}

type ExtractedQuestion struct {
	QuestionID string                 `json:"question_id"`
	Order      int                    `json:"order"`
	Prompt     string                 `json:"prompt"`
	Options    []types.QuestionOption `json:"options"`
}

type AnalyzeResult struct {
	Event        string    `json:"event"`
	ExamID       string    `json:"exam_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Bncc         *BnccRef  `json:"bncc,omitempty"`
	Bloom        *BloomRef `json:"bloom,omitempty"`
	Reports      *struct {
		BnccBloomReportMd *string `json:"bncc_bloom_report_md,omitempty"`
		EmentaReportMd    *string `json:"ementa_report_md,omitempty"`
	} `json:"reports,omitempty"`
	Extracted *struct {
		ObjectiveQuestions []ExtractedQuestion `json:"objective_questions,omitempty"`
	} `json:"extracted,omitempty"`
	Warnings []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"warnings,omitempty"`
}

type VersionResult struct {
	Condition   types.Condition     `json:"condition"`
	Status      types.VersionStatus `json:"status"`
	GoogleDocID  *string            `json:"google_doc_id,omitempty"`
	GoogleDocURL *string            `json:"google_doc_url,omitempty"`
	Limitations  []types.Limitation `json:"limitations,omitempty"`
}

type QaResult struct {
	Status string          `json:"status"`
	Score  *float64        `json:"score,omitempty"`
	Issues []types.QaIssue `json:"issues,omitempty"`
}

type GenerateResult struct {
	Event        string          `json:"event"`
	ExamID       string          `json:"exam_id"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Versions     []VersionResult `json:"versions,omitempty"`
	Qa           *QaResult       `json:"qa,omitempty"`
}
