package floor

import (
	"sync"

	"gorm.io/gorm"

	floorEntity "github.com/skandal1st/loungepos/model/entity/floor"
)

type FloorRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *FloorRepository

func NewFloorRepository(db *gorm.DB) *FloorRepository {
	return &FloorRepository{db: db}
}

func GetFloorRepository(db *gorm.DB) *FloorRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*FloorRepository)
	}
	v, _ := instances.LoadOrStore(db, NewFloorRepository(db))
	return v.(*FloorRepository)
}

func (r *FloorRepository) Halls(tenantID uint) ([]floorEntity.Hall, error) {
	var halls []floorEntity.Hall
	err := r.db.Where("active = ? AND tenant_id = ?", true, tenantID).Order("id").Find(&halls).Error
	return halls, err
}

func (r *FloorRepository) HallByID(tenantID, id uint) (*floorEntity.Hall, error) {
	var hall floorEntity.Hall
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *FloorRepository) CreateHall(hall *floorEntity.Hall) error {
	return r.db.Create(hall).Error
}

func (r *FloorRepository) UpdateHall(hall *floorEntity.Hall) error {
	return r.db.Save(hall).Error
}

func (r *FloorRepository) DeactivateHall(tenantID, id uint) error {
	return r.db.Model(&floorEntity.Hall{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

func (r *FloorRepository) CountActiveHalls(tenantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&floorEntity.Hall{}).
		Where("active = ? AND tenant_id = ?", true, tenantID).Count(&n).Error
	return n, err
}

// Tables returns active tables of active halls across the whole floor.
func (r *FloorRepository) Tables(tenantID uint) ([]floorEntity.Table, error) {
	var tables []floorEntity.Table
	err := r.db.
		Joins("JOIN halls ON halls.id = tables.hall_id AND halls.active = ?", true).
		Where("tables.active = ? AND tables.tenant_id = ?", true, tenantID).
		Order("tables.hall_id, tables.number").
		Find(&tables).Error
	return tables, err
}

func (r *FloorRepository) TablesByHall(tenantID, hallID uint) ([]floorEntity.Table, error) {
	var tables []floorEntity.Table
	err := r.db.Where("hall_id = ? AND active = ? AND tenant_id = ?", hallID, true, tenantID).
		Order("number").Find(&tables).Error
	return tables, err
}

func (r *FloorRepository) TableByID(tenantID, id uint) (*floorEntity.Table, error) {
	var table floorEntity.Table
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// TableByNumber finds an active table with the given number in a hall.
func (r *FloorRepository) TableByNumber(tenantID, hallID uint, number int) (*floorEntity.Table, error) {
	var table floorEntity.Table
	err := r.db.Where("hall_id = ? AND number = ? AND active = ? AND tenant_id = ?", hallID, number, true, tenantID).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *FloorRepository) CreateTable(table *floorEntity.Table) error {
	return r.db.Create(table).Error
}

func (r *FloorRepository) UpdateTable(table *floorEntity.Table) error {
	return r.db.Save(table).Error
}

func (r *FloorRepository) DeactivateTable(tenantID, id uint) error {
	return r.db.Model(&floorEntity.Table{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}
