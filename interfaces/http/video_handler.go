package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reelpilot/domain/dto"
	"reelpilot/infrastructure/logger"
	"reelpilot/usecase"
)

type IVideoHandler interface {
	Get(ctx *gin.Context)
	ListBySeries(ctx *gin.Context)
	GenerateNow(ctx *gin.Context)
	RenderComplete(ctx *gin.Context)
}

type VideoHandler struct {
	videoUsecase     usecase.IVideoUsecase
	schedulerUsecase usecase.ISchedulerUsecase
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase, schedulerUsecase usecase.ISchedulerUsecase) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase, schedulerUsecase: schedulerUsecase}
}

func (h *VideoHandler) Get(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	video, err := h.videoUsecase.Get(ctx.Request.Context(), userID, ctx.Param("videoId"))
	if err != nil {
		ctx.JSON(videoErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, video)
}

func (h *VideoHandler) ListBySeries(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	videos, err := h.videoUsecase.ListBySeries(ctx.Request.Context(), userID, ctx.Param("seriesId"), limit, offset)
	if err != nil {
		ctx.JSON(videoErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"videos": videos})
}

// GenerateNow triggers an immediate, unscheduled generation for a series.
func (h *VideoHandler) GenerateNow(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	seriesID := ctx.Param("seriesId")

	// Ownership check goes through the video usecase's series lookup.
	if _, err := h.videoUsecase.ListBySeries(ctx.Request.Context(), userID, seriesID, 1, 0); err != nil {
		ctx.JSON(videoErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	video, err := h.schedulerUsecase.GenerateNow(ctx.Request.Context(), seriesID)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"series_id": seriesID, "error": err}).Warn("manual generation failed")
		ctx.JSON(videoErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, video)
}

// RenderComplete is the callback endpoint for the render service. It is mounted
// on the internal route group, not behind user auth.
func (h *VideoHandler) RenderComplete(ctx *gin.Context) {
	videoID := ctx.Param("videoId")
	jobID := ctx.Query("job_id")

	var req dto.RenderCompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.videoUsecase.HandleRenderComplete(ctx.Request.Context(), videoID, jobID, req); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"video_id": videoID, "error": err}).Error("render callback failed")
		ctx.JSON(videoErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"accepted": true})
}

func videoErrorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrVideoNotFound), errors.Is(err, usecase.ErrSeriesNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrNotSeriesOwner):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrSeriesInactive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
