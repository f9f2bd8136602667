package models

// Category owns its products: the products.category_id foreign key is
// declared ON DELETE CASCADE on Product.Category.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:120;not null;uniqueIndex"`
}

func (c *Category) TableName() string {
	return "categories"
}
