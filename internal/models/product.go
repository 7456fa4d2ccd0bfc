package models

// ProductSize is stored in products.size.
type ProductSize string

const (
	ProductSizeSmall    ProductSize = "Small"
	ProductSizeStandard ProductSize = "Standard"
	ProductSizeLarge    ProductSize = "Large"
)

type Product struct {
	Base
	Name        string           `json:"name" gorm:"not null"`
	Description string           `json:"description"`
	Size        ProductSize      `json:"size" gorm:"size:20;not null;default:Standard"`
	Quantity    int              `json:"quantity" gorm:"not null;default:0"`
	Price       float64          `json:"price" gorm:"not null;default:0"`
	OrgID       string           `json:"org_id" gorm:"type:uuid;not null;index"`
	Org         *Organisation    `json:"org,omitempty" gorm:"foreignKey:OrgID"`
	CategoryID  *string          `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Category    *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

type ProductCategory struct {
	Base
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
