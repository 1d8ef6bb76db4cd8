package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/catalog"
	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
)

// WarehouseHandler maneja bodegas/outlets (protegido).
type WarehouseHandler struct {
	uc *catalog.UseCase
}

// NewWarehouseHandler construye el handler de bodegas.
func NewWarehouseHandler(uc *catalog.UseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create registra una bodega u outlet de la empresa del token.
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	w, err := h.uc.CreateWarehouse(c.Context(), catalog.CreateWarehouseInput{
		CompanyID: GetCompanyID(c),
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// GetByID obtiene una bodega por ID.
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	w, err := h.uc.GetWarehouse(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

// List lista las bodegas de la empresa.
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	ws, err := h.uc.ListWarehouses(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws)
}
