package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reelpilot/infrastructure/logger"
	"reelpilot/usecase"
)

type IConnectHandler interface {
	Connect(ctx *gin.Context)
	Callback(ctx *gin.Context)
	List(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
}

type ConnectHandler struct {
	connectUsecase usecase.IConnectUsecase
}

func NewConnectHandler(connectUsecase usecase.IConnectUsecase) IConnectHandler {
	return &ConnectHandler{connectUsecase: connectUsecase}
}

// Connect handles GET /auth/:platform and returns the consent URL to redirect
// the user to.
func (h *ConnectHandler) Connect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	platform := ctx.Param("platform")

	url, err := h.connectUsecase.ConnectURL(ctx.Request.Context(), userID, platform, ctx.Query("returnTo"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrUnsupportedPlatform) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// Callback handles GET /auth/:platform/callback. The platform identity lives in
// the stored state, so the path platform is informational only.
func (h *ConnectHandler) Callback(ctx *gin.Context) {
	if errParam := ctx.Query("error"); errParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       errParam,
			"description": ctx.Query("error_description"),
		})
		return
	}

	conn, returnTo, err := h.connectUsecase.HandleCallback(ctx.Request.Context(), ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("oauth callback failed")
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrInvalidOAuthState) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if returnTo != "" {
		ctx.Redirect(http.StatusFound, returnTo)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"connected": true, "platform": conn.Platform})
}

func (h *ConnectHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	connections, err := h.connectUsecase.List(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"connections": connections})
}

func (h *ConnectHandler) Disconnect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if err := h.connectUsecase.Disconnect(ctx.Request.Context(), userID, ctx.Param("platform")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"disconnected": true})
}
