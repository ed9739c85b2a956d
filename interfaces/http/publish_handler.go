package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reelpilot/domain/dto"
	"reelpilot/infrastructure/logger"
	"reelpilot/usecase"
)

type IPublishHandler interface {
	PublishVideo(ctx *gin.Context)
	VerifyPlatforms(ctx *gin.Context)
}

type PublishHandler struct {
	publishUsecase usecase.IPublishUsecase
	platforms      []string
}

func NewPublishHandler(publishUsecase usecase.IPublishUsecase, platforms []string) IPublishHandler {
	return &PublishHandler{publishUsecase: publishUsecase, platforms: platforms}
}

// PublishVideo triggers a manual publish of a ready video. An empty platform
// list means all enabled platforms.
func (h *PublishHandler) PublishVideo(ctx *gin.Context) {
	videoID := ctx.Param("videoId")
	userID := ctx.GetString("user_id")

	var req dto.PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = h.platforms
	}

	result, err := h.publishUsecase.Publish(ctx.Request.Context(), videoID, userID, platforms)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"video_id": videoID, "user_id": userID, "error": err}).Warn("publish request failed")
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrVideoNotReady) {
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// VerifyPlatforms reports connection health for the requested platforms
// (comma-separated query, defaults to all enabled).
func (h *PublishHandler) VerifyPlatforms(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	platforms := h.platforms
	if q := ctx.Query("platforms"); q != "" {
		platforms = strings.Split(q, ",")
	}
	status, err := h.publishUsecase.VerifyPlatforms(ctx.Request.Context(), userID, platforms)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"platforms": status})
}
