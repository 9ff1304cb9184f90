package register

import (
	"sync"

	"gorm.io/gorm"

	registerEntity "github.com/skandal1st/loungepos/model/entity/register"
)

type RegisterRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *RegisterRepository

func NewRegisterRepository(db *gorm.DB) *RegisterRepository {
	return &RegisterRepository{db: db}
}

func GetRegisterRepository(db *gorm.DB) *RegisterRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*RegisterRepository)
	}
	v, _ := instances.LoadOrStore(db, NewRegisterRepository(db))
	return v.(*RegisterRepository)
}

// WithTx returns a repository bound to the transaction handle.
func (r *RegisterRepository) WithTx(tx *gorm.DB) *RegisterRepository {
	return &RegisterRepository{db: tx}
}

// CurrentOpen returns the tenant's open register day, if any.
func (r *RegisterRepository) CurrentOpen(tenantID uint) (*registerEntity.RegisterDay, error) {
	var day registerEntity.RegisterDay
	err := r.db.Where("status = ? AND tenant_id = ?", registerEntity.StatusOpen, tenantID).
		Order("id DESC").First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *RegisterRepository) ByID(tenantID, id uint) (*registerEntity.RegisterDay, error) {
	var day registerEntity.RegisterDay
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// History returns the 30 most recent shifts.
func (r *RegisterRepository) History(tenantID uint) ([]registerEntity.RegisterDay, error) {
	var days []registerEntity.RegisterDay
	err := r.db.Where("tenant_id = ?", tenantID).Order("id DESC").Limit(30).Find(&days).Error
	return days, err
}

func (r *RegisterRepository) Create(day *registerEntity.RegisterDay) error {
	return r.db.Create(day).Error
}

func (r *RegisterRepository) Update(day *registerEntity.RegisterDay) error {
	return r.db.Save(day).Error
}

// AddSale rolls a closed order's total into the day. Cash sales raise
// total_cash and expected_cash; card sales only total_card. Both raise
// total_sales. Done with SQL expressions so concurrent closes don't lose
// updates.
func (r *RegisterRepository) AddSale(dayID uint, total float64, cash bool) error {
	updates := map[string]interface{}{
		"total_sales": gorm.Expr("total_sales + ?", total),
	}
	if cash {
		updates["total_cash"] = gorm.Expr("total_cash + ?", total)
		updates["expected_cash"] = gorm.Expr("expected_cash + ?", total)
	} else {
		updates["total_card"] = gorm.Expr("total_card + ?", total)
	}
	return r.db.Model(&registerEntity.RegisterDay{}).
		Where("id = ?", dayID).
		Updates(updates).Error
}
