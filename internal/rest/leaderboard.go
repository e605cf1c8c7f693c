package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"instaWin/domain"
	"instaWin/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	LeaderboardHandler struct {
		leaderboardService LeaderboardService
		timeout            time.Duration
	}

	LeaderboardService interface {
		GetLeaderboard(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, error)
	}
)

func NewLeaderboardHandler(svc LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: svc,
		timeout:            10 * time.Second,
	}
}

// GET /api/v1/promotions/:id/leaderboard?n=20
func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	limit := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if n, err := strconv.Atoi(nStr); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.leaderboardService.GetLeaderboard(ctx, uint(promotionID), limit)
	if err != nil {
		logger.Error("Failed to load leaderboard", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entries))
}
