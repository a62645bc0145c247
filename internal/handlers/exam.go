package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/requestdata"
	"github.com/provadapt/provadapt-backend/internal/services"
	"github.com/provadapt/provadapt-backend/internal/types"
)

type ExamHandler struct {
	examService     services.ExamService
	diAnswerService services.DiAnswerService
}

func NewExamHandler(examService services.ExamService, diAnswerService services.DiAnswerService) *ExamHandler {
	return &ExamHandler{examService: examService, diAnswerService: diAnswerService}
}

// Create handles the multipart intake. Validation runs in a fixed order so
// the client always sees the first failing field: file, then required text
// fields, then the condition list.
func (eh *ExamHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing identity"))
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", errors.New("a PDF file is required"))
		return
	}
	defer file.Close()

	disciplina := strings.TrimSpace(c.PostForm("disciplina"))
	anoSerie := strings.TrimSpace(c.PostForm("ano_serie"))
	if disciplina == "" || anoSerie == "" {
		RespondError(c, http.StatusBadRequest, "missing_fields", errors.New("disciplina and ano_serie are required"))
		return
	}

	conditions, err := types.ParseConditions(c.PostForm("selected_conditions"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conditions", err)
		return
	}

	in := services.CreateExamInput{
		Disciplina:       disciplina,
		AnoSerie:         anoSerie,
		HabilidadeHint:   optionalForm(c, "habilidade_hint"),
		ConhecimentoHint: optionalForm(c, "conhecimento_hint"),
		Conditions:       conditions,
		File:             file,
	}
	exam, err := eh.examService.CreateExam(c.Request.Context(), rd.UserID, rd.Email, in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, exam)
}

func (eh *ExamHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing identity"))
		return
	}
	filter := repos.ListExamsFilter{
		Disciplina: c.Query("disciplina"),
		AnoSerie:   c.Query("ano_serie"),
		Habilidade: c.Query("habilidade"),
		Search:     c.Query("search"),
	}
	exams, err := eh.examService.ListExams(c.Request.Context(), rd.UserID, filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"exams": exams})
}

func (eh *ExamHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	examID, ok := pathUUID(c, "id")
	if rd == nil || !ok {
		return
	}
	detail, err := eh.examService.GetExam(c.Request.Context(), rd.UserID, examID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

func (eh *ExamHandler) GetStatus(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	examID, ok := pathUUID(c, "id")
	if rd == nil || !ok {
		return
	}
	status, err := eh.examService.GetExamStatus(c.Request.Context(), rd.UserID, examID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, status)
}

func (eh *ExamHandler) SubmitAnswers(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	examID, ok := pathUUID(c, "id")
	if rd == nil || !ok {
		return
	}
	var req struct {
		Answers []services.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	if err := eh.diAnswerService.SubmitAnswers(c.Request.Context(), rd.UserID, rd.Email, examID, req.Answers); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"accepted": true})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func optionalForm(c *gin.Context, name string) *string {
	val := strings.TrimSpace(c.PostForm(name))
	if val == "" {
		return nil
	}
	return &val
}
