package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
)

// TransferHandler maneja traslados entre bodegas (protegido).
type TransferHandler struct {
	uc *posting.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *posting.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create crea un borrador de traslado.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := posting.TransferInput{
		CompanyID:       GetCompanyID(c),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		DocNo:           in.DocNo,
		TransferDate:    in.TransferDate,
		Notes:           in.Notes,
		CreatedBy:       GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, posting.TransferLineInput{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Qty:       l.Qty,
			Note:      l.Note,
		})
	}
	tr, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tr)
}

// GetByID devuelve el traslado con sus líneas.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	tr, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tr)
}

// Post contabiliza el traslado: transfer_out en origen, transfer_in en destino.
func (h *TransferHandler) Post(c *fiber.Ctx) error {
	if err := h.uc.Post(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado contabilizado"})
}

// Void anula el traslado contabilizado reversando ambos lados.
func (h *TransferHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidRequest
	_ = c.BodyParser(&in)
	if err := h.uc.Void(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado anulado"})
}
