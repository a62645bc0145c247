package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/services"
)

// CallbackHandler is the single inbound boundary for the workflow engine.
// The shared-secret middleware has already authenticated the request; here
// the envelope is decoded to pick the event handler.
type CallbackHandler struct {
	log             *logger.Logger
	callbackService services.CallbackService
}

func NewCallbackHandler(baseLog *logger.Logger, callbackService services.CallbackService) *CallbackHandler {
	return &CallbackHandler{
		log:             baseLog.With("handler", "CallbackHandler"),
		callbackService: callbackService,
	}
}

func (ch *CallbackHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("unreadable body"))
		return
	}

	var envelope n8n.CallbackEnvelope
	if err := decodeJSON(body, &envelope); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid callback payload"))
		return
	}

	switch envelope.Event {
	case n8n.EventAnalyzeResult:
		var result n8n.AnalyzeResult
		if err := decodeJSON(body, &result); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid analyze result"))
			return
		}
		err = ch.callbackService.HandleAnalyzeResult(c.Request.Context(), result)
	case n8n.EventGenerateResult:
		var result n8n.GenerateResult
		if err := decodeJSON(body, &result); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid generate result"))
			return
		}
		err = ch.callbackService.HandleGenerateResult(c.Request.Context(), result)
	default:
		RespondError(c, http.StatusBadRequest, "unknown_event", errors.New("unknown callback event"))
		return
	}

	if err != nil {
		ch.log.Error("callback processing failed",
			"event", envelope.Event, "exam_id", envelope.ExamID, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"received": true})
}

func decodeJSON(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	return dec.Decode(dst)
}
