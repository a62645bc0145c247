package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provadapt/provadapt-backend/internal/requestdata"
	"github.com/provadapt/provadapt-backend/internal/services"
)

type VersionHandler struct {
	ratingService services.RatingService
}

func NewVersionHandler(ratingService services.RatingService) *VersionHandler {
	return &VersionHandler{ratingService: ratingService}
}

func (vh *VersionHandler) Rate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	versionID, ok := pathUUID(c, "id")
	if rd == nil || !ok {
		return
	}
	var req struct {
		Rating  int     `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	rating, err := vh.ratingService.RateVersion(c.Request.Context(), rd.UserID, versionID, req.Rating, req.Comment)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rating)
}
