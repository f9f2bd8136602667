package models

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:200;not null"`
	Sku           *string `gorm:"size:80"`
	Description   *string `gorm:"type:text"`
	Price         *float64
	Stock         *int      `gorm:"default:0"`
	Unit          *string   `gorm:"size:40"`
	Specs         *string   `gorm:"type:text"`
	ImageFilename *string   `gorm:"size:300"`
	CreatedAt     time.Time `gorm:"index"`
	CategoryID    *uint     `gorm:"index"`
	Category      *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (p *Product) TableName() string {
	return "products"
}

// SpecsDict decodes the stored specs document. Text that is not a JSON
// object is returned under a single "details" key.
func (p *Product) SpecsDict() map[string]any {
	if p.Specs == nil || *p.Specs == "" {
		return map[string]any{}
	}

	var specs map[string]any
	if err := json.Unmarshal([]byte(*p.Specs), &specs); err != nil || specs == nil {
		return map[string]any{"details": *p.Specs}
	}
	return specs
}

// ProductFilter narrows a product listing. Both filters compose with AND.
type ProductFilter struct {
	CategoryID *uint
	Query      string
}
