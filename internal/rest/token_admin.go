package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"instaWin/domain"
	"instaWin/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	TokenAdminHandler struct {
		validate     *validator.Validate
		tokenService TokenService
		timeout      time.Duration
	}

	TokenService interface {
		IssueBatch(ctx context.Context, promotionID uint, n int) ([]domain.IssuedToken, error)
	}

	IssueTokensRequest struct {
		Count int `json:"count" validate:"required,gte=1,lte=10000"`
	}
)

func NewTokenAdminHandler(svc TokenService) *TokenAdminHandler {
	return &TokenAdminHandler{
		validate:     validator.New(),
		tokenService: svc,
		timeout:      30 * time.Second,
	}
}

// POST /api/v1/admin/promotions/:id/tokens
func (h *TokenAdminHandler) IssueTokens(c echo.Context) error {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	var req IssueTokensRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	issued, err := h.tokenService.IssueBatch(ctx, uint(promotionID), req.Count)
	if err != nil {
		if err.Error() == "promotion not found" || err.Error() == "promotion is closed" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to issue tokens", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(issued))
}
