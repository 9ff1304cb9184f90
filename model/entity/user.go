package entity

import "time"

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  uint      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Username  string    `gorm:"column:username;type:varchar(100);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'cashier'" json:"role"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
