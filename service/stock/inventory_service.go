package stock

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
	stockEntity "github.com/skandal1st/loungepos/model/entity/stock"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
	stockRepo "github.com/skandal1st/loungepos/model/repository/stock"
)

// InventoryService runs stock-takes: snapshot system quantities, collect
// physical counts, then overwrite stock with the counted values.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// CountInput records one counted row of an open stock-take.
type CountInput struct {
	ItemID         uint     `json:"id"`
	ActualQuantity *float64 `json:"actual_quantity"`
}

func (s *InventoryService) List(tenantID uint) ([]stockEntity.Inventory, error) {
	inventories, err := stockRepo.GetStockRepository(s.db).Inventories(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return inventories, nil
}

func (s *InventoryService) Get(tenantID, id uint) (*stockEntity.Inventory, error) {
	inv, err := stockRepo.GetStockRepository(s.db).InventoryByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("stock-take not found")
		}
		return nil, apperr.Persistence(err)
	}
	return inv, nil
}

// Open starts a stock-take, snapshotting every tracked active product's
// current quantity. Only one stock-take may be open per tenant.
func (s *InventoryService) Open(tenantID, userID uint, note string) (*stockEntity.Inventory, error) {
	stocks := stockRepo.GetStockRepository(s.db)
	if _, err := stocks.OpenInventory(tenantID); err == nil {
		return nil, apperr.Conflict("a stock-take is already open, close it before starting a new one")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err)
	}

	var inv *stockEntity.Inventory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products, err := catalogRepo.GetCatalogRepository(s.db).WithTx(tx).TrackedProducts(tenantID)
		if err != nil {
			return err
		}

		inv = &stockEntity.Inventory{
			TenantID: tenantID,
			UserID:   userID,
			Note:     note,
			Status:   stockEntity.InventoryOpen,
		}
		for _, p := range products {
			inv.Items = append(inv.Items, stockEntity.InventoryItem{
				ProductID:      p.ID,
				ProductName:    p.Name,
				Unit:           p.Unit,
				SystemQuantity: p.Quantity,
			})
		}
		return stockRepo.GetStockRepository(s.db).WithTx(tx).CreateInventory(inv)
	})
	if err != nil {
		return nil, apperr.As(err)
	}
	return inv, nil
}

// RecordCounts stores physical counts on an open stock-take.
func (s *InventoryService) RecordCounts(tenantID, inventoryID uint, counts []CountInput) error {
	stocks := stockRepo.GetStockRepository(s.db)
	inv, err := stocks.InventoryByID(tenantID, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("stock-take not found")
		}
		return apperr.Persistence(err)
	}
	if inv.Status != stockEntity.InventoryOpen {
		return apperr.Conflict("stock-take is already closed")
	}

	for _, c := range counts {
		if c.ActualQuantity != nil && *c.ActualQuantity < 0 {
			return apperr.Validation("counted quantity cannot be negative")
		}
		if err := stocks.SetActualQuantity(inv.ID, c.ItemID, c.ActualQuantity); err != nil {
			return apperr.Persistence(err)
		}
	}
	return nil
}

// Apply overwrites product quantities with the counted values (a direct
// set, not a delta) for every row that has a count, then closes the
// stock-take. Uncounted rows leave their product untouched.
func (s *InventoryService) Apply(tenantID, inventoryID uint) (*stockEntity.Inventory, error) {
	stocks := stockRepo.GetStockRepository(s.db)
	inv, err := stocks.InventoryByID(tenantID, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("stock-take not found")
		}
		return nil, apperr.Persistence(err)
	}
	if inv.Status != stockEntity.InventoryOpen {
		return nil, apperr.Conflict("stock-take is already closed")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		items, err := stocks.WithTx(tx).InventoryItems(inv.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.ActualQuantity == nil {
				continue
			}
			if err := tx.Model(&catalogEntity.Product{}).
				Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).
				Update("quantity", *item.ActualQuantity).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		if err := tx.Model(&stockEntity.Inventory{}).
			Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"status":    stockEntity.InventoryClosed,
				"closed_at": now,
			}).Error; err != nil {
			return err
		}
		inv.Status = stockEntity.InventoryClosed
		inv.ClosedAt = &now
		return nil
	})
	if err != nil {
		return nil, apperr.As(err)
	}
	return inv, nil
}
