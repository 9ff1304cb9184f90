package stock

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	stockEntity "github.com/skandal1st/loungepos/model/entity/stock"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
	stockRepo "github.com/skandal1st/loungepos/model/repository/stock"
)

// SupplyService records goods receipts and applies them to stock.
type SupplyService struct {
	db *gorm.DB
}

func NewSupplyService(db *gorm.DB) *SupplyService {
	return &SupplyService{db: db}
}

// SupplyItemInput is one received line.
type SupplyItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

// List returns all supplies with their items, newest first.
func (s *SupplyService) List(tenantID uint) ([]stockEntity.Supply, error) {
	supplies, err := stockRepo.GetStockRepository(s.db).Supplies(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return supplies, nil
}

// Receive books a supply and applies each line atomically: quantity is
// incremented and cost_price becomes the quantity-weighted average of the
// old stock and the received batch, rounded to cents. A zero combined
// quantity falls back to the batch's unit cost.
func (s *SupplyService) Receive(tenantID, userID uint, supplier, note string, items []SupplyItemInput) (*stockEntity.Supply, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("add at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("item quantity must be positive")
		}
		if item.UnitCost < 0 {
			return nil, apperr.Validation("item unit cost cannot be negative")
		}
	}

	var supply *stockEntity.Supply
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, item := range items {
			total += item.Quantity * item.UnitCost
		}

		supply = &stockEntity.Supply{
			TenantID: tenantID,
			Supplier: supplier,
			Note:     note,
			Total:    total,
			UserID:   userID,
		}
		for _, item := range items {
			supply.Items = append(supply.Items, stockEntity.SupplyItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
			})
		}
		if err := stockRepo.GetStockRepository(s.db).WithTx(tx).CreateSupply(supply); err != nil {
			return err
		}

		catalog := catalogRepo.GetCatalogRepository(s.db).WithTx(tx)
		for _, item := range items {
			product, err := catalog.ProductByID(tenantID, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			oldQty := product.Quantity
			oldCost := product.CostPrice
			totalQty := oldQty + item.Quantity
			newCost := item.UnitCost
			if totalQty > 0 {
				newCost = (oldQty*oldCost + item.Quantity*item.UnitCost) / totalQty
			}
			product.Quantity = totalQty
			product.CostPrice = math.Round(newCost*100) / 100
			if err := catalog.UpdateProduct(product); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.As(err)
	}
	return supply, nil
}
