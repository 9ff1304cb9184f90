package floor

const (
	ShapeSquare    = "square"
	ShapeRectangle = "rectangle"
	ShapeRound     = "round"
	ShapeCorner    = "corner"
)

// Table is a venue table placed on the hall map. X/Y/Width/Height drive the
// drag-and-drop layout in clients.
type Table struct {
	ID       uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID uint    `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	HallID   uint    `gorm:"column:hall_id;not null" json:"hall_id"`
	Number   int     `gorm:"column:number;not null" json:"number"`
	X        float64 `gorm:"column:x;type:numeric(10,2);not null;default:10" json:"x"`
	Y        float64 `gorm:"column:y;type:numeric(10,2);not null;default:10" json:"y"`
	Seats    int     `gorm:"column:seats;not null;default:4" json:"seats"`
	Shape    string  `gorm:"column:shape;type:varchar(20);not null;default:'square'" json:"shape"`
	Width    float64 `gorm:"column:width;type:numeric(10,2);not null;default:72" json:"width"`
	Height   float64 `gorm:"column:height;type:numeric(10,2);not null;default:72" json:"height"`
	Active   bool    `gorm:"column:active;not null;default:true" json:"active"`
}

func (Table) TableName() string {
	return "tables"
}
