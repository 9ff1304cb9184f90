package catalog

type Category struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  uint   `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name      string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Color     string `gorm:"column:color;type:varchar(20);not null;default:'#6366f1'" json:"color"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	Active    bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (Category) TableName() string {
	return "categories"
}
