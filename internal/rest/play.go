package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"instaWin/business/engine"
	"instaWin/domain"
	"instaWin/pkg/logger"
	"instaWin/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

type (
	PlayHandler struct {
		validate    *validator.Validate
		playService PlayService
		timeout     time.Duration
	}

	PlayService interface {
		Play(ctx context.Context, promotionID, playerID uint, tokenCode string, playCtx map[string]any) (domain.PlayResult, error)
	}

	PlayRequest struct {
		TokenCode string `json:"token_code" validate:"required"`
		Platform  string `json:"platform"`
	}
)

func NewPlayHandler(svc PlayService) *PlayHandler {
	return &PlayHandler{
		validate:    validator.New(),
		playService: svc,
		timeout:     10 * time.Second,
	}
}

// POST /api/v1/promotions/:id/plays
func (h *PlayHandler) Play(c echo.Context) error {
	start := time.Now()
	metrics.PlayRequests.Inc()
	defer func() {
		metrics.PlayLatency.Observe(time.Since(start).Seconds())
	}()

	playerID, ok := c.Get("player_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	var req PlayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var playCtx map[string]any
	if req.Platform != "" {
		playCtx = map[string]any{"platform": req.Platform}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.playService.Play(ctx, uint(promotionID), playerID, req.TokenCode, playCtx)
	if err != nil {
		return h.mapPlayError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *PlayHandler) mapPlayError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrCampaignNotActive):
		return c.JSON(http.StatusForbidden, ResponseError{Message: "campaign not active"})
	case errors.Is(err, engine.ErrTokenInvalid):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "token invalid"})
	case errors.Is(err, engine.ErrTokenAlreadyUsed):
		return c.JSON(http.StatusConflict, ResponseError{Message: "token already used"})
	case errors.Is(err, engine.ErrAllocationConflict):
		// safe for the client to retry the same token idempotently
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "allocation conflict, retry"})
	}

	logger.Error("Play failed", "error", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal error"})
}
