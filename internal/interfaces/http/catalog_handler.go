package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/application/catalog"
	"github.com/jhoicas/wic-assist-api/internal/application/dto"
	"github.com/jhoicas/wic-assist-api/internal/domain"
)

// CatalogHandler maneja las consultas de la APL (protegido).
type CatalogHandler struct {
	uc     *catalog.UseCase
	basket *basket.UseCase // para la verificación de elegibilidad con saldo
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase, basketUC *basket.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc, basket: basketUC}
}

// GetByUPC godoc
// @Summary      Buscar producto de la APL por UPC
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        upc  path  string  true  "UPC del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{upc} [get]
func (h *CatalogHandler) GetByUPC(c *fiber.Ctx) error {
	upc := c.Params("upc")
	if upc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_UPC", Message: "upc es requerido"})
	}
	out, err := h.uc.FindByUPC(c.Context(), upc)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "UPC no está en la APL"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Verificar elegibilidad y saldo de un UPC (guard de re-entrada por sesión)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        upc  path  string  true  "UPC del producto"
// @Success      200  {object}  dto.ScanResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/catalog/{upc}/check [get]
func (h *CatalogHandler) Check(c *fiber.Ctx) error {
	upc := c.Params("upc")
	if upc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_UPC", Message: "upc es requerido"})
	}
	out, err := h.basket.ScanUPC(c.Context(), GetUserID(c), upc)
	if err != nil {
		if err == domain.ErrCheckInProgress {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CHECK_IN_PROGRESS", Message: "ya hay una verificación en curso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Substitutes godoc
// @Summary      Sustitutos elegibles de una categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  true   "Categoría WIC"
// @Param        limit     query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.SubstitutesResponse
// @Router       /api/catalog/substitutes [get]
func (h *CatalogHandler) Substitutes(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category es requerido"})
	}
	limit := clampLimit(c.QueryInt("limit", 10))
	out, err := h.uc.Substitutes(c.Context(), category, limit)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Healthier godoc
// @Summary      Sustitutos con mejor puntaje nutricional que un producto base
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        upc       query  string  true   "UPC base"
// @Param        category  query  string  false  "Categoría (por defecto, la del UPC base)"
// @Param        limit     query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.SubstitutesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/healthier [get]
func (h *CatalogHandler) Healthier(c *fiber.Ctx) error {
	upc := c.Query("upc")
	if upc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "upc es requerido"})
	}
	limit := clampLimit(c.QueryInt("limit", 10))
	out, err := h.uc.HealthierSubstitutes(c.Context(), c.Query("category"), upc, limit)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "UPC base no está en la APL"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}
