package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
)

// AdjustmentHandler maneja ajustes manuales (protegido).
type AdjustmentHandler struct {
	uc *posting.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *posting.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Create crea un borrador de ajuste (merma, vencimiento, corrección).
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := posting.AdjustmentInput{
		CompanyID:   GetCompanyID(c),
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Reason:      in.Reason,
		AdjustDate:  in.AdjustDate,
		Notes:       in.Notes,
		CreatedBy:   GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, posting.AdjustmentLineInput{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			QtyDelta:  l.QtyDelta,
			UnitCost:  l.UnitCost,
			Note:      l.Note,
		})
	}
	adj, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adj)
}

// GetByID devuelve el ajuste con sus líneas.
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	adj, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(adj)
}

// Post contabiliza el ajuste.
func (h *AdjustmentHandler) Post(c *fiber.Ctx) error {
	if err := h.uc.Post(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste contabilizado"})
}
