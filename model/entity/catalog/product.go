package catalog

// Product covers three kinds of catalog rows: sellable items, composite
// (recipe) items whose cost derives from ingredients, and raw ingredients
// (is_ingredient=true, price always 0, never listed as sellable).
type Product struct {
	ID                uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID          uint    `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CategoryID        uint    `gorm:"column:category_id;not null" json:"category_id"`
	Name              string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Price             float64 `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	CostPrice         float64 `gorm:"column:cost_price;type:numeric(12,2);not null;default:0" json:"cost_price"`
	Quantity          float64 `gorm:"column:quantity;type:numeric(12,3);not null;default:0" json:"quantity"`
	Unit              string  `gorm:"column:unit;type:varchar(10);not null;default:'pcs'" json:"unit"`
	TrackInventory    bool    `gorm:"column:track_inventory;not null;default:true" json:"track_inventory"`
	IsComposite       bool    `gorm:"column:is_composite;not null;default:false" json:"is_composite"`
	IsIngredient      bool    `gorm:"column:is_ingredient;not null;default:false" json:"is_ingredient"`
	OutputAmount      float64 `gorm:"column:output_amount;type:numeric(12,3);not null;default:1" json:"output_amount"`
	RecipeDescription string  `gorm:"column:recipe_description;not null;default:''" json:"recipe_description"`
	MinQuantity       float64 `gorm:"column:min_quantity;type:numeric(12,3);not null;default:0" json:"min_quantity"`
	Active            bool    `gorm:"column:active;not null;default:true" json:"active"`
}

func (Product) TableName() string {
	return "products"
}
