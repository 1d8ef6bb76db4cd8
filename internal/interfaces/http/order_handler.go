package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
)

// OrderHandler maneja órdenes de venta/cocina (protegido).
type OrderHandler struct {
	uc *posting.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *posting.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create crea un borrador de orden.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := posting.OrderInput{
		CompanyID:   GetCompanyID(c),
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		OrderDate:   in.OrderDate,
		Notes:       in.Notes,
		CreatedBy:   GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, posting.OrderLineInput{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Qty:       l.Qty,
			Note:      l.Note,
		})
	}
	order, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetByID devuelve la orden con sus líneas.
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Post contabiliza la orden: consumo FIFO por línea.
func (h *OrderHandler) Post(c *fiber.Ctx) error {
	if err := h.uc.Post(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden contabilizada"})
}

// Void anula la orden contabilizada reinstalando las capas consumidas.
func (h *OrderHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidRequest
	_ = c.BodyParser(&in)
	if err := h.uc.Void(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden anulada"})
}
