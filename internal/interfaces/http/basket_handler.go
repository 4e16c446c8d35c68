package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/application/dto"
	"github.com/jhoicas/wic-assist-api/internal/application/receipt"
	"github.com/jhoicas/wic-assist-api/internal/domain"
)

// BasketHandler maneja las peticiones HTTP de canasta y saldos (protegido).
type BasketHandler struct {
	uc      *basket.UseCase
	receipt *receipt.UseCase
}

// NewBasketHandler construye el handler.
func NewBasketHandler(uc *basket.UseCase, receiptUC *receipt.UseCase) *BasketHandler {
	return &BasketHandler{uc: uc, receipt: receiptUC}
}

// State godoc
// @Summary      Estado de canasta y saldos
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BasketResponse
// @Router       /api/basket [get]
func (h *BasketHandler) State(c *fiber.Ctx) error {
	out, err := h.uc.State(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos por categoría WIC
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/balances [get]
func (h *BasketHandler) Balances(c *fiber.Ctx) error {
	out, err := h.uc.State(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out.Balances)
}

// AddItem godoc
// @Summary      Agregar un producto escaneado a la canasta
// @Tags         basket
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddItemRequest  true  "upc"
// @Success      200   {object}  dto.AddItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/basket/items [post]
func (h *BasketHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UPC == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "upc es requerido"})
	}
	out, err := h.uc.AddItem(c.Context(), GetUserID(c), in.UPC)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "UPC no está en la APL"})
		case domain.ErrNotEligible:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_ELIGIBLE", Message: "producto no elegible para WIC"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Increment godoc
// @Summary      Sumar una unidad (desborda a PAID si el cupo está al tope)
// @Tags         basket
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemOpRequest  true  "upc, category"
// @Success      200   {object}  dto.BasketResponse
// @Router       /api/basket/items/increment [post]
func (h *BasketHandler) Increment(c *fiber.Ctx) error {
	return h.itemOp(c, h.uc.IncrementItem)
}

// Decrement godoc
// @Summary      Restar una unidad (drena PAID primero)
// @Tags         basket
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemOpRequest  true  "upc, category"
// @Success      200   {object}  dto.BasketResponse
// @Router       /api/basket/items/decrement [post]
func (h *BasketHandler) Decrement(c *fiber.Ctx) error {
	return h.itemOp(c, h.uc.DecrementItem)
}

// Checkout godoc
// @Summary      Completar la compra (vacía canasta y reinicia saldos)
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CheckoutResponse
// @Router       /api/basket/checkout [post]
func (h *BasketHandler) Checkout(c *fiber.Ctx) error {
	out, err := h.uc.Checkout(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Abandonar la canasta (revierte la contabilidad de uso)
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BasketResponse
// @Router       /api/basket [delete]
func (h *BasketHandler) Clear(c *fiber.Ctx) error {
	out, err := h.uc.ClearBasket(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de la canasta actual
// @Tags         basket
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/basket/receipt [get]
func (h *BasketHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipt.DownloadReceiptPDF(c.Context(), GetUserID(c))
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_BASKET", Message: "la canasta está vacía"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// itemOp factoriza increment/decrement: mismo request y misma respuesta.
func (h *BasketHandler) itemOp(c *fiber.Ctx, op func(ctx context.Context, userID, upc, category string) (*dto.BasketResponse, error)) error {
	var in dto.ItemOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UPC == "" || in.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "upc y category son requeridos"})
	}
	out, err := op(c.Context(), GetUserID(c), in.UPC, in.Category)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
