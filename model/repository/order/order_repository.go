package order

import (
	"sync"

	"gorm.io/gorm"

	orderEntity "github.com/skandal1st/loungepos/model/entity/order"
)

// OrderRepository persists orders and their items. Tenant-scoped on every
// entry point; item access always goes through the owning order.
type OrderRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *OrderRepository

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func GetOrderRepository(db *gorm.DB) *OrderRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*OrderRepository)
	}
	v, _ := instances.LoadOrStore(db, NewOrderRepository(db))
	return v.(*OrderRepository)
}

// WithTx returns a repository bound to the transaction handle.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// List returns the newest orders for a tenant, optionally filtered by
// status, capped at 100.
func (r *OrderRepository) List(tenantID uint, status string) ([]orderEntity.Order, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []orderEntity.Order
	err := q.Order("id DESC").Limit(100).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ByID(tenantID, id uint) (*orderEntity.Order, error) {
	var o orderEntity.Order
	err := r.db.Preload("Items").Where("id = ? AND tenant_id = ?", id, tenantID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OpenByID finds an order only while it is still mutable.
func (r *OrderRepository) OpenByID(tenantID, id uint) (*orderEntity.Order, error) {
	var o orderEntity.Order
	err := r.db.Where("id = ? AND status = ? AND tenant_id = ?", id, orderEntity.StatusOpen, tenantID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OpenByTable returns the open order currently bound to a table, if any.
func (r *OrderRepository) OpenByTable(tenantID, tableID uint) (*orderEntity.Order, error) {
	var o orderEntity.Order
	err := r.db.Where("table_id = ? AND status = ? AND tenant_id = ?", tableID, orderEntity.StatusOpen, tenantID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Create(o *orderEntity.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) Update(o *orderEntity.Order) error {
	return r.db.Save(o).Error
}

// Items returns all items of an order.
func (r *OrderRepository) Items(orderID uint) ([]orderEntity.OrderItem, error) {
	var items []orderEntity.OrderItem
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

// ItemByProduct finds an order's line for a product, if present.
func (r *OrderRepository) ItemByProduct(orderID, productID uint) (*orderEntity.OrderItem, error) {
	var item orderEntity.OrderItem
	err := r.db.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *OrderRepository) ItemByID(orderID, itemID uint) (*orderEntity.OrderItem, error) {
	var item orderEntity.OrderItem
	err := r.db.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *OrderRepository) CreateItem(item *orderEntity.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *OrderRepository) UpdateItem(item *orderEntity.OrderItem) error {
	return r.db.Save(item).Error
}

func (r *OrderRepository) DeleteItem(orderID, itemID uint) error {
	return r.db.Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&orderEntity.OrderItem{}).Error
}

// RecalcTotal recomputes the order total as the sum of item totals. Always a
// full SUM, never incremental, so repeated item edits cannot drift.
func (r *OrderRepository) RecalcTotal(orderID uint) (float64, error) {
	var total float64
	err := r.db.Model(&orderEntity.OrderItem{}).
		Select("COALESCE(SUM(total), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	err = r.db.Model(&orderEntity.Order{}).
		Where("id = ?", orderID).
		Update("total", total).Error
	return total, err
}

// CountOpenByDay counts orders still open against a register day.
func (r *OrderRepository) CountOpenByDay(registerDayID uint) (int64, error) {
	var n int64
	err := r.db.Model(&orderEntity.Order{}).
		Where("register_day_id = ? AND status = ?", registerDayID, orderEntity.StatusOpen).
		Count(&n).Error
	return n, err
}

// CountOpen counts all open orders for a tenant.
func (r *OrderRepository) CountOpen(tenantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&orderEntity.Order{}).
		Where("status = ? AND tenant_id = ?", orderEntity.StatusOpen, tenantID).
		Count(&n).Error
	return n, err
}
