package models

import (
	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	TenantAggregateModel
	SKU      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name     string          `gorm:"type:varchar(200);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock    int             `gorm:"not null;default:0"`
	IsActive bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	product := &catalog.Product{
		SKU:      m.SKU,
		Name:     m.Name,
		Price:    m.Price,
		Stock:    m.Stock,
		IsActive: m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&product.TenantAggregateRoot)
	return product
}

// ProductModelFromDomain converts a domain product to the persistence model
func ProductModelFromDomain(product *catalog.Product) *ProductModel {
	model := &ProductModel{
		SKU:      product.SKU,
		Name:     product.Name,
		Price:    product.Price,
		Stock:    product.Stock,
		IsActive: product.IsActive,
	}
	model.FromDomainTenantAggregateRoot(product.TenantAggregateRoot)
	return model
}
