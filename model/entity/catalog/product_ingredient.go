package catalog

// ProductIngredient is a bill-of-materials edge: the composite product
// consumes Amount of the ingredient per OutputAmount of the product.
type ProductIngredient struct {
	ID           uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    uint    `gorm:"column:product_id;not null;index" json:"product_id"`
	IngredientID uint    `gorm:"column:ingredient_id;not null" json:"ingredient_id"`
	Amount       float64 `gorm:"column:amount;type:numeric(12,3);not null;default:1" json:"amount"`
}

func (ProductIngredient) TableName() string {
	return "product_ingredients"
}
