package order

// OrderItem snapshots product name, price and cost at the moment the item
// is added. Later catalog edits must not change history, so these are value
// copies, not live references.
type OrderItem struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID     uint    `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID   uint    `gorm:"column:product_id;not null" json:"product_id"`
	ProductName string  `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity    int     `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Price       float64 `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	CostPrice   float64 `gorm:"column:cost_price;type:numeric(12,2);not null;default:0" json:"cost_price"`
	Total       float64 `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
