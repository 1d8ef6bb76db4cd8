package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

// UseCase expone el catálogo maestro: empresas, bodegas y productos.
// Opera sobre repositorios atados al pool; nada aquí muta inventario.
type UseCase struct {
	companies  repository.CompanyRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(companies repository.CompanyRepository, warehouses repository.WarehouseRepository, products repository.ProductRepository) *UseCase {
	return &UseCase{companies: companies, warehouses: warehouses, products: products}
}

// CreateCompanyInput datos para crear una empresa.
type CreateCompanyInput struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
}

// CreateCompany registra un tenant nuevo en estado active.
func (uc *UseCase) CreateCompany(ctx context.Context, in CreateCompanyInput) (*entity.Company, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre de empresa requerido", domain.ErrInvalidInput)
	}
	c := &entity.Company{
		ID:      uuid.New().String(),
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
		Status:  "active",
	}
	if err := uc.companies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCompany obtiene una empresa por ID.
func (uc *UseCase) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	c, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// ListCompanies lista todas las empresas.
func (uc *UseCase) ListCompanies(ctx context.Context) ([]*entity.Company, error) {
	return uc.companies.List(ctx)
}

// CreateWarehouseInput datos para crear una bodega/outlet.
type CreateWarehouseInput struct {
	CompanyID string
	Code      string
	Name      string
	Type      string // central_kitchen u outlet
	Address   string
}

// CreateWarehouse registra una bodega. El tipo debe ser válido.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in CreateWarehouseInput) (*entity.Warehouse, error) {
	if in.CompanyID == "" || in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: company_id, code y name son requeridos", domain.ErrInvalidInput)
	}
	if in.Type != entity.WarehouseTypeCentralKitchen && in.Type != entity.WarehouseTypeOutlet {
		return nil, fmt.Errorf("%w: tipo de bodega %q", domain.ErrInvalidInput, in.Type)
	}
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
	}
	if err := uc.warehouses.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWarehouse obtiene una bodega por ID dentro de la empresa.
func (uc *UseCase) GetWarehouse(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	w, err := uc.warehouses.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// ListWarehouses lista las bodegas de la empresa.
func (uc *UseCase) ListWarehouses(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	return uc.warehouses.List(ctx, companyID)
}

// CreateProductInput datos para crear un producto.
type CreateProductInput struct {
	CompanyID          string
	SKU                string
	Name               string
	Description        string
	BaseUnit           string
	Cost               decimal.Decimal
	Perishable         bool
	AllowNegativeStock bool
}

// CreateProduct registra un producto del catálogo.
func (uc *UseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if in.CompanyID == "" || in.SKU == "" || in.Name == "" || in.BaseUnit == "" {
		return nil, fmt.Errorf("%w: company_id, sku, name y base_unit son requeridos", domain.ErrInvalidInput)
	}
	if in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	p := &entity.Product{
		ID:                 uuid.New().String(),
		CompanyID:          in.CompanyID,
		SKU:                in.SKU,
		Name:               in.Name,
		Description:        in.Description,
		BaseUnit:           in.BaseUnit,
		Cost:               in.Cost,
		Perishable:         in.Perishable,
		AllowNegativeStock: in.AllowNegativeStock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct obtiene un producto por ID dentro de la empresa.
func (uc *UseCase) GetProduct(ctx context.Context, companyID, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts lista los productos de la empresa.
func (uc *UseCase) ListProducts(ctx context.Context, companyID string) ([]*entity.Product, error) {
	return uc.products.List(ctx, companyID)
}
