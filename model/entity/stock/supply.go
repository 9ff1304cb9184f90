package stock

import "time"

// Supply is a goods-receipt event. Applying it bumps product quantities and
// recomputes cost prices as a quantity-weighted average.
type Supply struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  uint      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Supplier  string    `gorm:"column:supplier;type:varchar(255)" json:"supplier"`
	Note      string    `gorm:"column:note" json:"note"`
	Total     float64   `gorm:"column:total;type:numeric(12,2);not null;default:0" json:"total"`
	UserID    uint      `gorm:"column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Items []SupplyItem `gorm:"foreignKey:SupplyID" json:"items"`
}

func (Supply) TableName() string {
	return "supplies"
}

type SupplyItem struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SupplyID  uint    `gorm:"column:supply_id;not null;index" json:"supply_id"`
	ProductID uint    `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  float64 `gorm:"column:quantity;type:numeric(12,3);not null" json:"quantity"`
	UnitCost  float64 `gorm:"column:unit_cost;type:numeric(12,2);not null" json:"unit_cost"`
}

func (SupplyItem) TableName() string {
	return "supply_items"
}
