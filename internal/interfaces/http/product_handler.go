package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/catalog"
	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
)

// ProductHandler maneja el catálogo de productos (protegido).
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler construye el handler de productos.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create registra un producto de la empresa del token.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.CreateProduct(c.Context(), catalog.CreateProductInput{
		CompanyID:          GetCompanyID(c),
		SKU:                in.SKU,
		Name:               in.Name,
		Description:        in.Description,
		BaseUnit:           in.BaseUnit,
		Cost:               in.Cost,
		Perishable:         in.Perishable,
		AllowNegativeStock: in.AllowNegativeStock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetByID obtiene un producto por ID.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// List lista los productos de la empresa.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.uc.ListProducts(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ps)
}
