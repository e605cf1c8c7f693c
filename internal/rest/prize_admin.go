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
	PrizeAdminHandler struct {
		validate  *validator.Validate
		prizeRepo PrizeAdminRepository
		timeout   time.Duration
	}

	PrizeAdminRepository interface {
		Create(ctx context.Context, prize *domain.PrizeType) error
		FindByPromotion(ctx context.Context, promotionID uint) ([]domain.PrizeType, error)
		ResetStock(ctx context.Context, id uint) error
		Delete(ctx context.Context, id uint) error
	}

	CreatePrizeRequest struct {
		Name         string `json:"name" validate:"required"`
		InitialStock int    `json:"initial_stock" validate:"required,gte=1"`
		Priority     int    `json:"priority" validate:"gte=0"`
	}
)

func NewPrizeAdminHandler(prizeRepo PrizeAdminRepository) *PrizeAdminHandler {
	return &PrizeAdminHandler{
		validate:  validator.New(),
		prizeRepo: prizeRepo,
		timeout:   10 * time.Second,
	}
}

// POST /api/v1/admin/promotions/:id/prizes
func (h *PrizeAdminHandler) CreatePrize(c echo.Context) error {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	var req CreatePrizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prize := domain.PrizeType{
		PromotionID:  uint(promotionID),
		Name:         req.Name,
		InitialStock: req.InitialStock,
		Priority:     req.Priority,
	}
	if err := h.prizeRepo.Create(ctx, &prize); err != nil {
		logger.Error("Failed to create prize type", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(prize))
}

// POST /api/v1/admin/prizes/:id/reset
func (h *PrizeAdminHandler) ResetStock(c echo.Context) error {
	prizeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid prize id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.prizeRepo.ResetStock(ctx, uint(prizeID)); err != nil {
		if err.Error() == "prize type not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to reset prize stock", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// DELETE /api/v1/admin/prizes/:id
func (h *PrizeAdminHandler) DeletePrize(c echo.Context) error {
	prizeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid prize id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.prizeRepo.Delete(ctx, uint(prizeID)); err != nil {
		if err.Error() == "prize type not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to delete prize type", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
