package floor

type Hall struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID uint   `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name     string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Active   bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (Hall) TableName() string {
	return "halls"
}
