package order

import "time"

const (
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusCancelled = "cancelled"

	PaymentCash = "cash"
	PaymentCard = "card"
)

type Order struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID      uint       `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	TableID       *uint      `gorm:"column:table_id" json:"table_id"`
	RegisterDayID uint       `gorm:"column:register_day_id;not null" json:"register_day_id"`
	UserID        uint       `gorm:"column:user_id;not null" json:"user_id"`
	Status        string     `gorm:"column:status;type:varchar(20);not null;default:'open'" json:"status"`
	PaymentMethod *string    `gorm:"column:payment_method;type:varchar(20)" json:"payment_method"`
	Total         float64    `gorm:"column:total;type:numeric(12,2);not null;default:0" json:"total"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ClosedAt      *time.Time `gorm:"column:closed_at" json:"closed_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}
