package stock

import (
	"sync"

	"gorm.io/gorm"

	stockEntity "github.com/skandal1st/loungepos/model/entity/stock"
)

// StockRepository persists goods receipts (supplies) and stock-takes
// (inventories).
type StockRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *StockRepository

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func GetStockRepository(db *gorm.DB) *StockRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*StockRepository)
	}
	v, _ := instances.LoadOrStore(db, NewStockRepository(db))
	return v.(*StockRepository)
}

// WithTx returns a repository bound to the transaction handle.
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

// --- supplies ---

func (r *StockRepository) Supplies(tenantID uint) ([]stockEntity.Supply, error) {
	var supplies []stockEntity.Supply
	err := r.db.Preload("Items").Where("tenant_id = ?", tenantID).
		Order("id DESC").Find(&supplies).Error
	return supplies, err
}

func (r *StockRepository) CreateSupply(s *stockEntity.Supply) error {
	return r.db.Create(s).Error
}

// --- inventories (stock-takes) ---

func (r *StockRepository) Inventories(tenantID uint) ([]stockEntity.Inventory, error) {
	var inventories []stockEntity.Inventory
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Find(&inventories).Error
	return inventories, err
}

func (r *StockRepository) InventoryByID(tenantID, id uint) (*stockEntity.Inventory, error) {
	var inv stockEntity.Inventory
	err := r.db.Preload("Items").Where("id = ? AND tenant_id = ?", id, tenantID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// OpenInventory returns the tenant's open stock-take, if any.
func (r *StockRepository) OpenInventory(tenantID uint) (*stockEntity.Inventory, error) {
	var inv stockEntity.Inventory
	err := r.db.Where("status = ? AND tenant_id = ?", stockEntity.InventoryOpen, tenantID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *StockRepository) CreateInventory(inv *stockEntity.Inventory) error {
	return r.db.Create(inv).Error
}

func (r *StockRepository) InventoryItems(inventoryID uint) ([]stockEntity.InventoryItem, error) {
	var items []stockEntity.InventoryItem
	err := r.db.Where("inventory_id = ?", inventoryID).Order("id").Find(&items).Error
	return items, err
}

// SetActualQuantity records a physical count on one snapshot row.
func (r *StockRepository) SetActualQuantity(inventoryID, itemID uint, actual *float64) error {
	return r.db.Model(&stockEntity.InventoryItem{}).
		Where("id = ? AND inventory_id = ?", itemID, inventoryID).
		Update("actual_quantity", actual).Error
}
