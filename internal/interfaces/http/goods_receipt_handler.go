package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
)

// GoodsReceiptHandler maneja recepciones de mercancía (protegido).
type GoodsReceiptHandler struct {
	uc *posting.GoodsReceiptUseCase
}

// NewGoodsReceiptHandler construye el handler.
func NewGoodsReceiptHandler(uc *posting.GoodsReceiptUseCase) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{uc: uc}
}

// Create crea un borrador de recepción. No mueve inventario.
func (h *GoodsReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGoodsReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := posting.GoodsReceiptInput{
		CompanyID:   GetCompanyID(c),
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Supplier:    in.Supplier,
		ReceiptDate: in.ReceiptDate,
		Notes:       in.Notes,
		CreatedBy:   GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, posting.GoodsReceiptLineInput{
			ProductID:  l.ProductID,
			LotNo:      l.LotNo,
			ExpiryDate: l.ExpiryDate,
			MfgDate:    l.MfgDate,
			Qty:        l.Qty,
			UnitCost:   l.UnitCost,
			Note:       l.Note,
		})
	}
	rec, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetByID devuelve la recepción con sus líneas.
func (h *GoodsReceiptHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// Post contabiliza la recepción (draft -> posted, atómico).
func (h *GoodsReceiptHandler) Post(c *fiber.Ctx) error {
	if err := h.uc.Post(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "recepción contabilizada"})
}

// Void anula la recepción contabilizada generando los reversos.
func (h *GoodsReceiptHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidRequest
	_ = c.BodyParser(&in)
	if err := h.uc.Void(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "recepción anulada"})
}
