package register

import "time"

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// RegisterDay is a cash shift. ExpectedCash tracks opening cash plus cash
// sales only; card sales never touch the physical drawer.
type RegisterDay struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID     uint       `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OpenedAt     time.Time  `gorm:"column:opened_at;autoCreateTime" json:"opened_at"`
	ClosedAt     *time.Time `gorm:"column:closed_at" json:"closed_at"`
	OpenedBy     uint       `gorm:"column:opened_by" json:"opened_by"`
	ClosedBy     *uint      `gorm:"column:closed_by" json:"closed_by"`
	OpeningCash  float64    `gorm:"column:opening_cash;type:numeric(12,2);not null;default:0" json:"opening_cash"`
	ExpectedCash float64    `gorm:"column:expected_cash;type:numeric(12,2);not null;default:0" json:"expected_cash"`
	ActualCash   *float64   `gorm:"column:actual_cash;type:numeric(12,2)" json:"actual_cash"`
	TotalCash    float64    `gorm:"column:total_cash;type:numeric(12,2);not null;default:0" json:"total_cash"`
	TotalCard    float64    `gorm:"column:total_card;type:numeric(12,2);not null;default:0" json:"total_card"`
	TotalSales   float64    `gorm:"column:total_sales;type:numeric(12,2);not null;default:0" json:"total_sales"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:'open'" json:"status"`
}

func (RegisterDay) TableName() string {
	return "register_days"
}

// Discrepancy is actual minus expected cash; zero until the day is closed
// with an actual count.
func (d *RegisterDay) Discrepancy() float64 {
	if d.ActualCash == nil {
		return 0
	}
	return *d.ActualCash - d.ExpectedCash
}
