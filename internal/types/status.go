package types

type ExamStatus string

const (
	ExamStatusUploaded        ExamStatus = "UPLOADED"
	ExamStatusAnalyzing       ExamStatus = "ANALYZING"
	ExamStatusWaitingDIInput  ExamStatus = "WAITING_DI_INPUT"
	ExamStatusReadyToGenerate ExamStatus = "READY_TO_GENERATE"
	ExamStatusGenerating      ExamStatus = "GENERATING"
	ExamStatusReady           ExamStatus = "READY"
	ExamStatusPartialReady    ExamStatus = "PARTIAL_READY"
	ExamStatusFailed          ExamStatus = "FAILED"
)

// IsTerminal reports whether the exam will never change status on its own.
func (s ExamStatus) IsTerminal() bool {
	switch s {
	case ExamStatusReady, ExamStatusPartialReady, ExamStatusFailed:
		return true
	}
	return false
}

// RequiresInput reports whether the exam is waiting on the teacher
// rather than on the workflow engine.
func (s ExamStatus) RequiresInput() bool {
	return s == ExamStatusWaitingDIInput
}

type VersionStatus string

const (
	VersionStatusPending VersionStatus = "PENDING"
	VersionStatusReady   VersionStatus = "READY"
	VersionStatusPartial VersionStatus = "PARTIAL"
	VersionStatusFailed  VersionStatus = "FAILED"
)

type BloomLevel string

const (
	BloomLembrar     BloomLevel = "LEMBRAR"
	BloomCompreender BloomLevel = "COMPREENDER"
	BloomAplicar     BloomLevel = "APLICAR"
	BloomAnalisar    BloomLevel = "ANALISAR"
	BloomAvaliar     BloomLevel = "AVALIAR"
	BloomCriar       BloomLevel = "CRIAR"
)
