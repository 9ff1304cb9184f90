package order

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
	orderEntity "github.com/skandal1st/loungepos/model/entity/order"
	registerEntity "github.com/skandal1st/loungepos/model/entity/register"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Category{},
		&catalogEntity.Product{},
		&catalogEntity.ProductIngredient{},
		&orderEntity.Order{},
		&orderEntity.OrderItem{},
		&registerEntity.RegisterDay{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const testTenant = uint(1)

// seedCatalog creates a plain tracked product, a tracked ingredient and a
// composite product consuming 20 units of the ingredient.
func seedCatalog(t *testing.T, db *gorm.DB) (cola, hookah, tobacco *catalogEntity.Product) {
	cat := &catalogEntity.Category{TenantID: testTenant, Name: "Drinks", Active: true}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	cola = &catalogEntity.Product{
		TenantID: testTenant, CategoryID: cat.ID, Name: "Cola",
		Price: 150, CostPrice: 50, Quantity: 10, Unit: "pcs",
		TrackInventory: true, OutputAmount: 1, Active: true,
	}
	tobacco = &catalogEntity.Product{
		TenantID: testTenant, CategoryID: cat.ID, Name: "Tobacco Mint",
		CostPrice: 2, Quantity: 100, Unit: "g",
		TrackInventory: true, IsIngredient: true, OutputAmount: 1, Active: true,
	}
	hookah = &catalogEntity.Product{
		TenantID: testTenant, CategoryID: cat.ID, Name: "Hookah Classic",
		Price: 500, CostPrice: 40, Unit: "pcs",
		IsComposite: true, TrackInventory: false, OutputAmount: 1, Active: true,
	}
	for _, p := range []*catalogEntity.Product{cola, tobacco, hookah} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed product %s: %v", p.Name, err)
		}
	}
	link := &catalogEntity.ProductIngredient{ProductID: hookah.ID, IngredientID: tobacco.ID, Amount: 20}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("seed bom link: %v", err)
	}
	return cola, hookah, tobacco
}

func openDay(t *testing.T, db *gorm.DB, openingCash float64) *registerEntity.RegisterDay {
	day := &registerEntity.RegisterDay{
		TenantID:     testTenant,
		OpenedBy:     1,
		OpeningCash:  openingCash,
		ExpectedCash: openingCash,
		Status:       registerEntity.StatusOpen,
	}
	if err := db.Create(day).Error; err != nil {
		t.Fatalf("open day: %v", err)
	}
	return day
}

func TestCreateRequiresOpenDay(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db, true)

	_, err := svc.Create(testTenant, 1, nil)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("Create without open day: got %v, want conflict", err)
	}
}

func TestCreateTableConflictReturnsExistingOrder(t *testing.T) {
	db := testDB(t)
	openDay(t, db, 0)
	svc := NewOrderService(db, true)

	tableID := uint(7)
	first, err := svc.Create(testTenant, 1, &tableID)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err = svc.Create(testTenant, 1, &tableID)
	ae := apperr.As(err)
	if ae.Kind != apperr.KindConflict {
		t.Fatalf("second Create: got %v, want conflict", err)
	}
	if got := ae.Meta["order_id"]; got != first.ID {
		t.Errorf("conflict meta order_id = %v, want %d", got, first.ID)
	}
}

func TestAddItemDeltaAndSnapshot(t *testing.T) {
	db := testDB(t)
	cola, hookah, _ := seedCatalog(t, db)
	openDay(t, db, 0)
	svc := NewOrderService(db, true)

	o, err := svc.Create(testTenant, 1, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	o, err = svc.AddItem(testTenant, o.ID, cola.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v, want one line with qty 2", o.Items)
	}
	if o.Items[0].Price != 150 || o.Items[0].CostPrice != 50 {
		t.Errorf("snapshot price/cost = %.2f/%.2f, want 150/50", o.Items[0].Price, o.Items[0].CostPrice)
	}
	if o.Total != 300 {
		t.Errorf("total = %.2f, want 300", o.Total)
	}

	// composite cost resolves from the BOM: 20g * 2.00/g
	o, err = svc.AddItem(testTenant, o.ID, hookah.ID, 0) // zero delta means one
	if err != nil {
		t.Fatalf("AddItem hookah: %v", err)
	}
	var hookahLine *orderEntity.OrderItem
	for i := range o.Items {
		if o.Items[i].ProductID == hookah.ID {
			hookahLine = &o.Items[i]
		}
	}
	if hookahLine == nil || hookahLine.Quantity != 1 {
		t.Fatalf("hookah line missing: %+v", o.Items)
	}
	if hookahLine.CostPrice != 40 {
		t.Errorf("hookah cost = %.2f, want 40", hookahLine.CostPrice)
	}
	if o.Total != 800 {
		t.Errorf("total = %.2f, want 800", o.Total)
	}

	// negative delta shrinks, reaching zero removes the line
	o, err = svc.AddItem(testTenant, o.ID, cola.ID, -1)
	if err != nil {
		t.Fatalf("AddItem -1: %v", err)
	}
	o, err = svc.AddItem(testTenant, o.ID, cola.ID, -1)
	if err != nil {
		t.Fatalf("AddItem -1 again: %v", err)
	}
	for _, item := range o.Items {
		if item.ProductID == cola.ID {
			t.Fatalf("cola line should be removed, still present: %+v", item)
		}
	}
	if o.Total != 500 {
		t.Errorf("total = %.2f, want 500", o.Total)
	}
}

func TestSetItemQuantityAndRemove(t *testing.T) {
	db := testDB(t)
	cola, _, _ := seedCatalog(t, db)
	openDay(t, db, 0)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)
	o, err := svc.AddItem(testTenant, o.ID, cola.ID, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	o, err = svc.SetItemQuantity(testTenant, o.ID, o.Items[0].ID, 5)
	if err != nil {
		t.Fatalf("SetItemQuantity: %v", err)
	}
	if o.Items[0].Quantity != 5 || o.Total != 750 {
		t.Errorf("qty/total = %d/%.2f, want 5/750", o.Items[0].Quantity, o.Total)
	}

	o, err = svc.RemoveItem(testTenant, o.ID, o.Items[0].ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(o.Items) != 0 || o.Total != 0 {
		t.Errorf("after remove items=%d total=%.2f, want empty order", len(o.Items), o.Total)
	}
}

func TestCloseCashDeductsStockAndRollsIntoDay(t *testing.T) {
	db := testDB(t)
	cola, hookah, tobacco := seedCatalog(t, db)
	day := openDay(t, db, 1000)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)
	svc.AddItem(testTenant, o.ID, cola.ID, 2)
	svc.AddItem(testTenant, o.ID, hookah.ID, 1)

	closed, err := svc.Close(testTenant, o.ID, orderEntity.PaymentCash)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != orderEntity.StatusClosed || closed.ClosedAt == nil {
		t.Errorf("order not closed: %+v", closed)
	}
	if closed.PaymentMethod == nil || *closed.PaymentMethod != orderEntity.PaymentCash {
		t.Errorf("payment method = %v, want cash", closed.PaymentMethod)
	}

	var gotCola, gotTobacco catalogEntity.Product
	db.First(&gotCola, cola.ID)
	db.First(&gotTobacco, tobacco.ID)
	if gotCola.Quantity != 8 {
		t.Errorf("cola stock = %.3f, want 8", gotCola.Quantity)
	}
	if gotTobacco.Quantity != 80 {
		t.Errorf("tobacco stock = %.3f, want 80", gotTobacco.Quantity)
	}

	var gotDay registerEntity.RegisterDay
	db.First(&gotDay, day.ID)
	if gotDay.TotalCash != 800 || gotDay.TotalCard != 0 || gotDay.TotalSales != 800 {
		t.Errorf("day totals cash/card/sales = %.2f/%.2f/%.2f, want 800/0/800",
			gotDay.TotalCash, gotDay.TotalCard, gotDay.TotalSales)
	}
	if gotDay.ExpectedCash != 1800 {
		t.Errorf("expected cash = %.2f, want 1800", gotDay.ExpectedCash)
	}
}

func TestCloseCardSkipsDrawer(t *testing.T) {
	db := testDB(t)
	cola, _, _ := seedCatalog(t, db)
	day := openDay(t, db, 500)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)
	svc.AddItem(testTenant, o.ID, cola.ID, 1)

	if _, err := svc.Close(testTenant, o.ID, orderEntity.PaymentCard); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var gotDay registerEntity.RegisterDay
	db.First(&gotDay, day.ID)
	if gotDay.TotalCard != 150 || gotDay.TotalCash != 0 || gotDay.TotalSales != 150 {
		t.Errorf("day totals cash/card/sales = %.2f/%.2f/%.2f, want 0/150/150",
			gotDay.TotalCash, gotDay.TotalCard, gotDay.TotalSales)
	}
	if gotDay.ExpectedCash != 500 {
		t.Errorf("expected cash = %.2f, want unchanged 500", gotDay.ExpectedCash)
	}
}

func TestCloseValidation(t *testing.T) {
	db := testDB(t)
	seedCatalog(t, db)
	openDay(t, db, 0)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)

	if _, err := svc.Close(testTenant, o.ID, "crypto"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("unknown payment method: got %v, want validation error", err)
	}
	if _, err := svc.Close(testTenant, o.ID, orderEntity.PaymentCash); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty order: got %v, want validation error", err)
	}
}

func TestCloseStrictStockRejectsOversell(t *testing.T) {
	db := testDB(t)
	cola, _, _ := seedCatalog(t, db)
	day := openDay(t, db, 0)
	svc := NewOrderService(db, false)

	o, _ := svc.Create(testTenant, 1, nil)
	svc.AddItem(testTenant, o.ID, cola.ID, 11) // stock is 10

	_, err := svc.Close(testTenant, o.ID, orderEntity.PaymentCash)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("oversell: got %v, want conflict", err)
	}

	// the transaction must have rolled everything back
	var gotCola catalogEntity.Product
	db.First(&gotCola, cola.ID)
	if gotCola.Quantity != 10 {
		t.Errorf("stock after rejected close = %.3f, want 10", gotCola.Quantity)
	}
	var gotOrder orderEntity.Order
	db.First(&gotOrder, o.ID)
	if gotOrder.Status != orderEntity.StatusOpen {
		t.Errorf("order status = %s, want still open", gotOrder.Status)
	}
	var gotDay registerEntity.RegisterDay
	db.First(&gotDay, day.ID)
	if gotDay.TotalSales != 0 {
		t.Errorf("day total sales = %.2f, want 0", gotDay.TotalSales)
	}
}

func TestClosedOrderRejectsItemMutation(t *testing.T) {
	db := testDB(t)
	cola, _, _ := seedCatalog(t, db)
	day := openDay(t, db, 0)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)
	o, _ = svc.AddItem(testTenant, o.ID, cola.ID, 2)
	itemID := o.Items[0].ID
	if _, err := svc.Close(testTenant, o.ID, orderEntity.PaymentCash); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := svc.RemoveItem(testTenant, o.ID, itemID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("RemoveItem on closed order: got %v, want conflict", err)
	}
	if _, err := svc.AddItem(testTenant, o.ID, cola.ID, 1); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("AddItem on closed order: got %v, want conflict", err)
	}
	if _, err := svc.SetItemQuantity(testTenant, o.ID, itemID, 1); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("SetItemQuantity on closed order: got %v, want conflict", err)
	}

	// the closed order must still match the sale credited to the day
	var gotOrder orderEntity.Order
	db.Preload("Items").First(&gotOrder, o.ID)
	if len(gotOrder.Items) != 1 || gotOrder.Total != 300 {
		t.Errorf("closed order items=%d total=%.2f, want 1/300", len(gotOrder.Items), gotOrder.Total)
	}
	var gotDay registerEntity.RegisterDay
	db.First(&gotDay, day.ID)
	if gotDay.TotalSales != 300 {
		t.Errorf("day total sales = %.2f, want 300", gotDay.TotalSales)
	}
}

func TestCancel(t *testing.T) {
	db := testDB(t)
	cola, _, _ := seedCatalog(t, db)
	openDay(t, db, 0)
	svc := NewOrderService(db, true)

	o, _ := svc.Create(testTenant, 1, nil)
	svc.AddItem(testTenant, o.ID, cola.ID, 3)

	if err := svc.Cancel(testTenant, o.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	var gotOrder orderEntity.Order
	db.First(&gotOrder, o.ID)
	if gotOrder.Status != orderEntity.StatusCancelled {
		t.Errorf("status = %s, want cancelled", gotOrder.Status)
	}
	// no stock effect on cancel
	var gotCola catalogEntity.Product
	db.First(&gotCola, cola.ID)
	if gotCola.Quantity != 10 {
		t.Errorf("stock = %.3f, want untouched 10", gotCola.Quantity)
	}

	if err := svc.Cancel(testTenant, o.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("cancel twice: got %v, want conflict", err)
	}
}
