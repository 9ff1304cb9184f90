package entity

import "gorm.io/datatypes"

type Plan struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Price       float64        `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	MaxUsers    int            `gorm:"column:max_users;default:3" json:"max_users"`
	MaxHalls    int            `gorm:"column:max_halls;default:1" json:"max_halls"`
	MaxProducts int            `gorm:"column:max_products;default:50" json:"max_products"`
	Features    datatypes.JSON `gorm:"column:features" json:"features"`
}

func (Plan) TableName() string {
	return "plans"
}
