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
	PromotionAdminHandler struct {
		validate  *validator.Validate
		promoRepo PromotionAdminRepository
		prizeRepo PrizeAdminRepository
		timeout   time.Duration
	}

	PromotionAdminRepository interface {
		Create(ctx context.Context, promo *domain.Promotion) error
		FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error)
		FindAll(ctx context.Context) ([]domain.Promotion, error)
		UpdateStatus(ctx context.Context, id uint, status string) error
	}

	CreatePromotionRequest struct {
		Name          string    `json:"name" validate:"required"`
		StartsAt      time.Time `json:"starts_at" validate:"required"`
		EndsAt        time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
		PlannedTokens int       `json:"planned_tokens" validate:"gte=0"`
	}

	UpdatePromotionStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=draft active closed"`
	}
)

func NewPromotionAdminHandler(promoRepo PromotionAdminRepository, prizeRepo PrizeAdminRepository) *PromotionAdminHandler {
	return &PromotionAdminHandler{
		validate:  validator.New(),
		promoRepo: promoRepo,
		prizeRepo: prizeRepo,
		timeout:   10 * time.Second,
	}
}

// POST /api/v1/admin/promotions
func (h *PromotionAdminHandler) CreatePromotion(c echo.Context) error {
	var req CreatePromotionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	promo := domain.Promotion{
		Name:          req.Name,
		Status:        domain.PromotionStatusDraft,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		PlannedTokens: req.PlannedTokens,
	}
	if err := h.promoRepo.Create(ctx, &promo); err != nil {
		logger.Error("Failed to create promotion", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(promo))
}

// GET /api/v1/admin/promotions
func (h *PromotionAdminHandler) ListPromotions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	promos, err := h.promoRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list promotions", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(promos))
}

// PATCH /api/v1/admin/promotions/:id/status
func (h *PromotionAdminHandler) UpdateStatus(c echo.Context) error {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	var req UpdatePromotionStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.promoRepo.UpdateStatus(ctx, uint(promotionID), req.Status); err != nil {
		if err.Error() == "promotion not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update promotion status", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// GET /api/v1/admin/promotions/:id/stock
func (h *PromotionAdminHandler) GetStockSummary(c echo.Context) error {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid promotion id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prizes, err := h.prizeRepo.FindByPromotion(ctx, uint(promotionID))
	if err != nil {
		logger.Error("Failed to load prize stock", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	summary := domain.StockSummary{
		PromotionID: uint(promotionID),
		Prizes:      prizes,
	}
	for _, p := range prizes {
		summary.InitialStock += p.InitialStock
		summary.RemainingStock += p.RemainingStock
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}
