package order

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
	orderEntity "github.com/skandal1st/loungepos/model/entity/order"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
	orderRepo "github.com/skandal1st/loungepos/model/repository/order"
	registerRepo "github.com/skandal1st/loungepos/model/repository/register"
)

// OrderService drives the order lifecycle: open -> closed | cancelled.
// Closed and cancelled are terminal; only open orders accept item edits.
type OrderService struct {
	db *gorm.DB
	// AllowNegativeStock keeps the historical oversell behavior: stock can
	// go below zero on close and gets corrected by the next stock-take.
	// When false, Close rejects with a conflict before deducting anything.
	AllowNegativeStock bool
}

func NewOrderService(db *gorm.DB, allowNegativeStock bool) *OrderService {
	return &OrderService{db: db, AllowNegativeStock: allowNegativeStock}
}

// Create opens a new order for the cashier, optionally bound to a table.
// Requires an open register day. A table can hold at most one open order;
// the conflict carries the existing order id so clients can redirect.
func (s *OrderService) Create(tenantID, userID uint, tableID *uint) (*orderEntity.Order, error) {
	regs := registerRepo.GetRegisterRepository(s.db)
	day, err := regs.CurrentOpen(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("open the register day first")
		}
		return nil, apperr.Persistence(err)
	}

	orders := orderRepo.GetOrderRepository(s.db)
	if tableID != nil {
		existing, err := orders.OpenByTable(tenantID, *tableID)
		if err == nil {
			return nil, apperr.Conflict("this table already has an open order").
				WithMeta("order_id", existing.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Persistence(err)
		}
	}

	o := &orderEntity.Order{
		TenantID:      tenantID,
		TableID:       tableID,
		RegisterDayID: day.ID,
		UserID:        userID,
		Status:        orderEntity.StatusOpen,
	}
	if err := orders.Create(o); err != nil {
		return nil, apperr.Persistence(err)
	}
	o.Items = []orderEntity.OrderItem{}
	return o, nil
}

// AddItem adjusts the order's line for a product by delta. An existing line
// absorbs the delta (negative decrements; at or below zero the line is
// removed). A new line is only created for a positive delta and snapshots
// the current price and resolved cost; later catalog edits never touch it.
func (s *OrderService) AddItem(tenantID, orderID, productID uint, delta int) (*orderEntity.Order, error) {
	orders := orderRepo.GetOrderRepository(s.db)
	o, err := orders.OpenByID(tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("order not found or already closed")
		}
		return nil, apperr.Persistence(err)
	}

	catalog := catalogRepo.GetCatalogRepository(s.db)
	product, err := catalog.ActiveProductByID(tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Persistence(err)
	}

	if delta == 0 {
		delta = 1
	}

	existing, err := orders.ItemByProduct(o.ID, productID)
	switch {
	case err == nil:
		newQty := existing.Quantity + delta
		if newQty <= 0 {
			if err := orders.DeleteItem(o.ID, existing.ID); err != nil {
				return nil, apperr.Persistence(err)
			}
		} else {
			existing.Quantity = newQty
			existing.Total = float64(newQty) * existing.Price
			if err := orders.UpdateItem(existing); err != nil {
				return nil, apperr.Persistence(err)
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if delta > 0 {
			cost, err := catalog.ResolveCompositeCost(tenantID, product)
			if err != nil {
				return nil, apperr.Persistence(err)
			}
			item := &orderEntity.OrderItem{
				OrderID:     o.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    delta,
				Price:       product.Price,
				CostPrice:   cost,
				Total:       float64(delta) * product.Price,
			}
			if err := orders.CreateItem(item); err != nil {
				return nil, apperr.Persistence(err)
			}
		}
	default:
		return nil, apperr.Persistence(err)
	}

	if _, err := orders.RecalcTotal(o.ID); err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.reload(tenantID, o.ID)
}

// SetItemQuantity sets an absolute quantity. Zero or less removes the line.
// The snapshotted price never changes; only quantity and line total do.
func (s *OrderService) SetItemQuantity(tenantID, orderID, itemID uint, qty int) (*orderEntity.Order, error) {
	orders := orderRepo.GetOrderRepository(s.db)
	if _, err := orders.OpenByID(tenantID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("order not found or already closed")
		}
		return nil, apperr.Persistence(err)
	}

	item, err := orders.ItemByID(orderID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order item not found")
		}
		return nil, apperr.Persistence(err)
	}

	if qty <= 0 {
		if err := orders.DeleteItem(orderID, item.ID); err != nil {
			return nil, apperr.Persistence(err)
		}
	} else {
		item.Quantity = qty
		item.Total = float64(qty) * item.Price
		if err := orders.UpdateItem(item); err != nil {
			return nil, apperr.Persistence(err)
		}
	}

	if _, err := orders.RecalcTotal(orderID); err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.reload(tenantID, orderID)
}

// RemoveItem deletes a line and recomputes the order total. Closed and
// cancelled orders are immutable; their totals back the register day books.
func (s *OrderService) RemoveItem(tenantID, orderID, itemID uint) (*orderEntity.Order, error) {
	orders := orderRepo.GetOrderRepository(s.db)
	if _, err := orders.OpenByID(tenantID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("order not found or already closed")
		}
		return nil, apperr.Persistence(err)
	}
	if err := orders.DeleteItem(orderID, itemID); err != nil {
		return nil, apperr.Persistence(err)
	}
	if _, err := orders.RecalcTotal(orderID); err != nil {
		return nil, apperr.Persistence(err)
	}
	return s.reload(tenantID, orderID)
}

// Close terminates the order: deducts stock for every line, marks it closed
// with the payment method, and rolls the total into the owning register day.
// All of it runs in one transaction: a failed register update must also
// undo the stock deduction, or the books stop matching the shelf.
func (s *OrderService) Close(tenantID, orderID uint, paymentMethod string) (*orderEntity.Order, error) {
	if paymentMethod != orderEntity.PaymentCash && paymentMethod != orderEntity.PaymentCard {
		return nil, apperr.Validation("choose a payment method")
	}

	orders := orderRepo.GetOrderRepository(s.db)
	o, err := orders.OpenByID(tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("order not found or already closed")
		}
		return nil, apperr.Persistence(err)
	}

	items, err := orders.Items(o.ID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if len(items) == 0 {
		return nil, apperr.Validation("order is empty")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txOrders := orders.WithTx(tx)
		txCatalog := catalogRepo.GetCatalogRepository(s.db).WithTx(tx)

		for _, item := range items {
			if err := s.deductForSale(tx, txCatalog, tenantID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		o.Status = orderEntity.StatusClosed
		o.PaymentMethod = &paymentMethod
		o.ClosedAt = &now
		if err := txOrders.Update(o); err != nil {
			return err
		}

		txRegister := registerRepo.GetRegisterRepository(s.db).WithTx(tx)
		if _, err := txRegister.ByID(tenantID, o.RegisterDayID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // day row gone; order close stands alone
			}
			return err
		}
		return txRegister.AddSale(o.RegisterDayID, o.Total, paymentMethod == orderEntity.PaymentCash)
	})
	if err != nil {
		return nil, apperr.As(err)
	}

	return s.reload(tenantID, o.ID)
}

// deductForSale applies one line's stock effect: composites consume their
// tracked ingredients per BOM amount, plain tracked products consume
// themselves. Untracked rows are left alone.
func (s *OrderService) deductForSale(tx *gorm.DB, catalog *catalogRepo.CatalogRepository, tenantID, productID uint, qty int) error {
	product, err := catalog.ProductByID(tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if product.IsComposite {
		links, err := catalog.BOMLinks(tenantID, product.ID)
		if err != nil {
			return err
		}
		for _, link := range links {
			ing, err := catalog.ProductByID(tenantID, link.IngredientID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if !ing.TrackInventory {
				continue
			}
			if err := s.deduct(tx, ing, link.Amount*float64(qty)); err != nil {
				return err
			}
		}
		return nil
	}

	if product.TrackInventory {
		return s.deduct(tx, product, float64(qty))
	}
	return nil
}

func (s *OrderService) deduct(tx *gorm.DB, product *catalogEntity.Product, amount float64) error {
	if !s.AllowNegativeStock && product.Quantity-amount < 0 {
		return apperr.Conflict("insufficient stock for %q: have %.3f, need %.3f",
			product.Name, product.Quantity, amount)
	}
	return tx.Model(&catalogEntity.Product{}).
		Where("id = ?", product.ID).
		Update("quantity", gorm.Expr("quantity - ?", amount)).Error
}

// Cancel marks an open order cancelled. No stock or register side effects:
// nothing was sold.
func (s *OrderService) Cancel(tenantID, orderID uint) error {
	orders := orderRepo.GetOrderRepository(s.db)
	o, err := orders.OpenByID(tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Conflict("order not found or already closed")
		}
		return apperr.Persistence(err)
	}
	o.Status = orderEntity.StatusCancelled
	if err := orders.Update(o); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// List returns the newest orders, optionally filtered by status.
func (s *OrderService) List(tenantID uint, status string) ([]orderEntity.Order, error) {
	if status != "" && status != orderEntity.StatusOpen &&
		status != orderEntity.StatusClosed && status != orderEntity.StatusCancelled {
		return nil, apperr.Validation("unknown order status %q", status)
	}
	orders, err := orderRepo.GetOrderRepository(s.db).List(tenantID, status)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}

// Get returns one order with its items.
func (s *OrderService) Get(tenantID, orderID uint) (*orderEntity.Order, error) {
	return s.reload(tenantID, orderID)
}

func (s *OrderService) reload(tenantID, orderID uint) (*orderEntity.Order, error) {
	o, err := orderRepo.GetOrderRepository(s.db).ByID(tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Persistence(err)
	}
	if o.Items == nil {
		o.Items = []orderEntity.OrderItem{}
	}
	return o, nil
}
