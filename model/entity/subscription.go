package entity

import "time"

const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

type Subscription struct {
	ID               uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID         uint       `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	PlanID           uint       `gorm:"column:plan_id;not null" json:"plan_id"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:'trialing'" json:"status"`
	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end" json:"current_period_end"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
