package stock

import "time"

const (
	InventoryOpen   = "open"
	InventoryClosed = "closed"
)

// Inventory is a stock-take: a point-in-time snapshot of system quantities
// that staff reconcile against physical counts. At most one open per tenant.
type Inventory struct {
	ID        uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  uint       `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ClosedAt  *time.Time `gorm:"column:closed_at" json:"closed_at"`
	Status    string     `gorm:"column:status;type:varchar(20);not null;default:'open'" json:"status"`
	UserID    uint       `gorm:"column:user_id" json:"user_id"`
	Note      string     `gorm:"column:note;not null;default:''" json:"note"`

	Items []InventoryItem `gorm:"foreignKey:InventoryID" json:"items,omitempty"`
}

func (Inventory) TableName() string {
	return "inventories"
}

// InventoryItem freezes the system quantity at snapshot time.
// ActualQuantity stays nil until staff enter a count; apply skips nil rows.
type InventoryItem struct {
	ID             uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InventoryID    uint     `gorm:"column:inventory_id;not null;index" json:"inventory_id"`
	ProductID      uint     `gorm:"column:product_id;not null" json:"product_id"`
	ProductName    string   `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Unit           string   `gorm:"column:unit;type:varchar(10);not null;default:'pcs'" json:"unit"`
	SystemQuantity float64  `gorm:"column:system_quantity;type:numeric(12,3);not null;default:0" json:"system_quantity"`
	ActualQuantity *float64 `gorm:"column:actual_quantity;type:numeric(12,3)" json:"actual_quantity"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
