package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/catalog"
	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
)

// CompanyHandler maneja empresas (tenants).
type CompanyHandler struct {
	uc *catalog.UseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *catalog.UseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create registra una empresa.
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.CreateCompany(c.Context(), catalog.CreateCompanyInput{
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// GetByID obtiene una empresa por ID.
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	company, err := h.uc.GetCompany(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

// List lista todas las empresas.
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	companies, err := h.uc.ListCompanies(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(companies)
}
