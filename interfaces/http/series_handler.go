package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reelpilot/domain/dto"
	"reelpilot/infrastructure/logger"
	"reelpilot/usecase"
)

type ISeriesHandler interface {
	Create(ctx *gin.Context)
	Get(ctx *gin.Context)
	List(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type SeriesHandler struct {
	seriesUsecase usecase.ISeriesUsecase
}

func NewSeriesHandler(seriesUsecase usecase.ISeriesUsecase) ISeriesHandler {
	return &SeriesHandler{seriesUsecase: seriesUsecase}
}

func (h *SeriesHandler) Create(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.SeriesCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	series, err := h.seriesUsecase.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"user_id": userID, "error": err}).Warn("series create failed")
		ctx.JSON(seriesErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, series)
}

func (h *SeriesHandler) Get(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	series, err := h.seriesUsecase.Get(ctx.Request.Context(), userID, ctx.Param("seriesId"))
	if err != nil {
		ctx.JSON(seriesErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, series)
}

func (h *SeriesHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	list, err := h.seriesUsecase.List(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"series": list})
}

func (h *SeriesHandler) Update(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.SeriesUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	series, err := h.seriesUsecase.Update(ctx.Request.Context(), userID, ctx.Param("seriesId"), req)
	if err != nil {
		ctx.JSON(seriesErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, series)
}

func (h *SeriesHandler) Delete(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if err := h.seriesUsecase.Delete(ctx.Request.Context(), userID, ctx.Param("seriesId")); err != nil {
		ctx.JSON(seriesErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

func seriesErrorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrSeriesNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrNotSeriesOwner):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrSeriesLimitReached):
		return http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrInvalidSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
