package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"instaWin/business/engine"
	"instaWin/domain"

	"github.com/labstack/echo/v4"
)

type (
	EngineAdminHandler struct {
		cfgRepo   engine.ConfigRepository
		evaluator Evaluator
	}

	// Evaluator is the engine's dry-run surface: the probability the current
	// campaign state would produce, without drawing or committing.
	Evaluator interface {
		Evaluate(ctx context.Context, promotionID, playerID uint) (float64, engine.Breakdown, error)
	}
)

func NewEngineAdminHandler(cfgRepo engine.ConfigRepository, evaluator Evaluator) *EngineAdminHandler {
	return &EngineAdminHandler{
		cfgRepo:   cfgRepo,
		evaluator: evaluator,
	}
}

// GET /api/v1/admin/promotions/:id/engine-config
// Falls back to the engine defaults when no record is stored yet.
func (h *EngineAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid promotion id",
		})
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, uint(promotionID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		cfg = engine.ToDomain(uint(promotionID), engine.DefaultConfig())
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/promotions/:id/engine-config
// body: EngineConfig JSON. Invalid combinations are rejected here, never
// repaired at play time.
func (h *EngineAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid promotion id",
		})
	}

	var body domain.EngineConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	body.PromotionID = uint(promotionID)

	cfg := engine.FromDomain(body, engine.DefaultConfig())
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, engine.ErrConfigurationInvalid) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	if err := h.cfgRepo.UpsertConfig(ctx, engine.ToDomain(uint(promotionID), cfg)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// GET /api/v1/admin/promotions/:id/engine-config/evaluate?player_id=123
func (h *EngineAdminHandler) Evaluate(c echo.Context) error {
	ctx := c.Request().Context()

	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid promotion id",
		})
	}

	playerID, err := strconv.ParseUint(c.QueryParam("player_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "player_id is required",
		})
	}

	p, breakdown, err := h.evaluator.Evaluate(ctx, uint(promotionID), uint(playerID))
	if err != nil {
		if errors.Is(err, engine.ErrCampaignNotActive) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "campaign not active",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"probability": p,
		"breakdown":   breakdown,
	})
}
