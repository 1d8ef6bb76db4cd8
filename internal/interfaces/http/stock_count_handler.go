package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
)

// StockCountHandler maneja conteos físicos (protegido).
type StockCountHandler struct {
	uc *posting.StockCountUseCase
}

// NewStockCountHandler construye el handler.
func NewStockCountHandler(uc *posting.StockCountUseCase) *StockCountHandler {
	return &StockCountHandler{uc: uc}
}

// Create crea un borrador de conteo.
func (h *StockCountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := posting.StockCountInput{
		CompanyID:   GetCompanyID(c),
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		CountDate:   in.CountDate,
		Notes:       in.Notes,
		CreatedBy:   GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, posting.StockCountLineInput{
			ProductID:  l.ProductID,
			LotID:      l.LotID,
			CountedQty: l.CountedQty,
			Note:       l.Note,
		})
	}
	sc, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sc)
}

// GetByID devuelve el conteo con sus líneas.
func (h *StockCountHandler) GetByID(c *fiber.Ctx) error {
	sc, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sc)
}

// Post contabiliza el conteo: la diferencia contra el libro se postea como ajuste.
func (h *StockCountHandler) Post(c *fiber.Ctx) error {
	if err := h.uc.Post(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "conteo contabilizado"})
}
