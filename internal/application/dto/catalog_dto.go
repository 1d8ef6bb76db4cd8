package dto

import "github.com/shopspring/decimal"

// CreateCompanyRequest alta de empresa (tenant).
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CreateWarehouseRequest alta de bodega/outlet.
type CreateWarehouseRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"` // central_kitchen, outlet
	Address string `json:"address"`
}

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	BaseUnit           string          `json:"base_unit"`
	Cost               decimal.Decimal `json:"cost"`
	Perishable         bool            `json:"perishable"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
}
