package report

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

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
		&orderEntity.Order{},
		&orderEntity.OrderItem{},
		&registerEntity.RegisterDay{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func closedOrder(t *testing.T, db *gorm.DB, tenantID, dayID uint, method string, closedAt time.Time, items []orderEntity.OrderItem) *orderEntity.Order {
	var total float64
	for _, item := range items {
		total += item.Total
	}
	o := &orderEntity.Order{
		TenantID:      tenantID,
		RegisterDayID: dayID,
		UserID:        1,
		Status:        orderEntity.StatusClosed,
		PaymentMethod: &method,
		Total:         total,
		ClosedAt:      &closedAt,
		Items:         items,
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func seedDay(t *testing.T, db *gorm.DB, tenantID uint) *registerEntity.RegisterDay {
	day := &registerEntity.RegisterDay{TenantID: tenantID, Status: registerEntity.StatusOpen}
	if err := db.Create(day).Error; err != nil {
		t.Fatalf("seed day: %v", err)
	}
	return day
}

func TestSalesSummary(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	day := seedDay(t, db, 1)

	d1 := time.Date(2026, 8, 10, 14, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 11, 19, 30, 0, 0, time.UTC)

	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, d1, []orderEntity.OrderItem{
		{ProductID: 1, ProductName: "Cola", Quantity: 2, Price: 150, CostPrice: 50, Total: 300},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCard, d1, []orderEntity.OrderItem{
		{ProductID: 2, ProductName: "Tea", Quantity: 1, Price: 200, CostPrice: 80, Total: 200},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, d2, []orderEntity.OrderItem{
		{ProductID: 3, ProductName: "Hookah", Quantity: 1, Price: 500, CostPrice: 150, Total: 500},
	})
	// another tenant's order must not leak in
	otherDay := seedDay(t, db, 2)
	closedOrder(t, db, 2, otherDay.ID, orderEntity.PaymentCash, d1, []orderEntity.OrderItem{
		{ProductID: 4, ProductName: "X", Quantity: 1, Price: 9999, CostPrice: 1, Total: 9999},
	})

	report, err := svc.Sales(1, d1, d2, "day")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}

	sum := report.Summary
	if sum.TotalOrders != 3 {
		t.Errorf("orders = %d, want 3", sum.TotalOrders)
	}
	if sum.TotalRevenue != 1000 || sum.TotalCash != 800 || sum.TotalCard != 200 {
		t.Errorf("revenue/cash/card = %.2f/%.2f/%.2f, want 1000/800/200",
			sum.TotalRevenue, sum.TotalCash, sum.TotalCard)
	}
	if sum.TotalCost != 330 || sum.TotalProfit != 670 {
		t.Errorf("cost/profit = %.2f/%.2f, want 330/670", sum.TotalCost, sum.TotalProfit)
	}

	if len(report.Sales) != 2 {
		t.Fatalf("day buckets = %d, want 2", len(report.Sales))
	}
	first := report.Sales[0]
	if first.Period != "2026-08-10" || first.Revenue != 500 || first.Profit != 370 {
		t.Errorf("first bucket = %+v, want 2026-08-10 revenue 500 profit 370", first)
	}
}

func TestSalesMonthGrouping(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	day := seedDay(t, db, 1)

	jul := time.Date(2026, 7, 5, 12, 0, 0, 0, time.UTC)
	aug := time.Date(2026, 8, 5, 12, 0, 0, 0, time.UTC)
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, jul, []orderEntity.OrderItem{
		{ProductID: 1, ProductName: "A", Quantity: 1, Price: 100, Total: 100},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, aug, []orderEntity.OrderItem{
		{ProductID: 1, ProductName: "A", Quantity: 1, Price: 100, Total: 100},
	})

	report, err := svc.Sales(1, jul, aug, "month")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}
	if len(report.Sales) != 2 || report.Sales[0].Period != "2026-07" || report.Sales[1].Period != "2026-08" {
		t.Errorf("month buckets = %+v, want 2026-07 and 2026-08", report.Sales)
	}
}

func TestProductStats(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)

	cat := &catalogEntity.Category{TenantID: 1, Name: "Bar", Color: "#fff", Active: true}
	db.Create(cat)
	cola := &catalogEntity.Product{TenantID: 1, CategoryID: cat.ID, Name: "Cola", Active: true, OutputAmount: 1}
	db.Create(cola)

	day := seedDay(t, db, 1)
	at := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, at, []orderEntity.OrderItem{
		{ProductID: cola.ID, ProductName: "Cola", Quantity: 3, Price: 150, CostPrice: 50, Total: 450},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, at, []orderEntity.OrderItem{
		{ProductID: cola.ID, ProductName: "Cola", Quantity: 1, Price: 150, CostPrice: 50, Total: 150},
	})

	report, err := svc.ProductStats(1, at, at)
	if err != nil {
		t.Fatalf("ProductStats: %v", err)
	}
	if len(report.Products) != 1 {
		t.Fatalf("products = %+v, want one row", report.Products)
	}
	row := report.Products[0]
	if row.TotalQty != 4 || row.TotalRevenue != 600 || row.TotalCost != 200 {
		t.Errorf("product row = %+v, want qty 4 revenue 600 cost 200", row)
	}
	if len(report.Categories) != 1 || report.Categories[0].TotalRevenue != 600 {
		t.Errorf("categories = %+v, want Bar with 600", report.Categories)
	}
}

func TestInventoryValuation(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)

	cat := &catalogEntity.Category{TenantID: 1, Name: "Stock", Active: true}
	db.Create(cat)
	db.Create(&catalogEntity.Product{
		TenantID: 1, CategoryID: cat.ID, Name: "Tobacco", Quantity: 100, CostPrice: 2,
		MinQuantity: 150, Unit: "g", TrackInventory: true, Active: true, OutputAmount: 1,
	})
	db.Create(&catalogEntity.Product{
		TenantID: 1, CategoryID: cat.ID, Name: "Coal", Quantity: 50, CostPrice: 1,
		MinQuantity: 10, TrackInventory: true, Active: true, OutputAmount: 1,
	})
	db.Create(&catalogEntity.Product{ // untracked, excluded
		TenantID: 1, CategoryID: cat.ID, Name: "Service", Quantity: 999, CostPrice: 9,
		TrackInventory: false, Active: true, OutputAmount: 1,
	})

	report, err := svc.Inventory(1, nil)
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("items = %d, want 2 tracked products", len(report.Items))
	}
	if report.TotalValue != 250 {
		t.Errorf("total value = %.2f, want 250", report.TotalValue)
	}
	for _, item := range report.Items {
		switch item.Name {
		case "Tobacco":
			if !item.IsLowStock || item.StockValue != 200 {
				t.Errorf("tobacco row = %+v, want low stock, value 200", item)
			}
		case "Coal":
			if item.IsLowStock {
				t.Errorf("coal should not be low stock: %+v", item)
			}
		}
	}
}

func TestShiftReport(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	day := seedDay(t, db, 1)

	at := time.Date(2026, 8, 25, 21, 15, 0, 0, time.UTC)
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, at, []orderEntity.OrderItem{
		{ProductID: 1, ProductName: "Hookah", Quantity: 1, Price: 500, CostPrice: 150, Total: 500},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCard, at.Add(time.Hour), []orderEntity.OrderItem{
		{ProductID: 2, ProductName: "Cola", Quantity: 2, Price: 150, CostPrice: 50, Total: 300},
	})
	closedOrder(t, db, 1, day.ID, orderEntity.PaymentCash, at.Add(time.Hour), []orderEntity.OrderItem{
		{ProductID: 3, ProductName: "Tea", Quantity: 1, Price: 110, CostPrice: 30, Total: 110},
	})

	report, err := svc.Shift(1, day.ID)
	if err != nil {
		t.Fatalf("Shift: %v", err)
	}
	if report.Revenue != 910 || report.OrdersCount != 3 {
		t.Errorf("revenue/orders = %.2f/%d, want 910/3", report.Revenue, report.OrdersCount)
	}
	if report.Profit != 630 {
		t.Errorf("profit = %.2f, want 630", report.Profit)
	}
	// 910 / 3 rounded to a whole amount
	if report.AvgCheck != 303 {
		t.Errorf("avg check = %.2f, want 303", report.AvgCheck)
	}
	if len(report.TopProducts) != 3 || report.TopProducts[0].ProductName != "Hookah" {
		t.Errorf("top products = %+v, want Hookah first", report.TopProducts)
	}
	if len(report.Hourly) != 2 {
		t.Errorf("hourly buckets = %+v, want 2", report.Hourly)
	}

	if _, err := svc.Shift(1, 999); err == nil {
		t.Error("Shift on unknown day should fail")
	}
	if _, err := svc.Shift(2, day.ID); err == nil {
		t.Error("Shift must be tenant scoped")
	}
}

func TestDashboardSnapshot(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)

	// a tenant id no other test uses, the snapshot is cached in-process
	const tenant = uint(77)
	cat := &catalogEntity.Category{TenantID: tenant, Name: "Bar", Active: true}
	db.Create(cat)
	db.Create(&catalogEntity.Product{
		TenantID: tenant, CategoryID: cat.ID, Name: "Tobacco", Quantity: 10, CostPrice: 2,
		MinQuantity: 20, TrackInventory: true, Active: true, OutputAmount: 1,
	})

	day := seedDay(t, db, tenant)
	closedOrder(t, db, tenant, day.ID, orderEntity.PaymentCash, time.Now(), []orderEntity.OrderItem{
		{ProductID: 1, ProductName: "Hookah", Quantity: 1, Price: 500, CostPrice: 150, Total: 500},
	})
	db.Create(&orderEntity.Order{TenantID: tenant, RegisterDayID: day.ID, UserID: 1, Status: orderEntity.StatusOpen})

	d, err := svc.DashboardSnapshot(tenant)
	if err != nil {
		t.Fatalf("DashboardSnapshot: %v", err)
	}
	if d.Revenue != 500 || d.Profit != 350 || d.OrdersCount != 1 {
		t.Errorf("revenue/profit/orders = %.2f/%.2f/%d, want 500/350/1", d.Revenue, d.Profit, d.OrdersCount)
	}
	if d.OpenOrders != 1 {
		t.Errorf("open orders = %d, want 1", d.OpenOrders)
	}
	if d.StockValue != 20 {
		t.Errorf("stock value = %.2f, want 20", d.StockValue)
	}
	if d.LowStockCount != 1 {
		t.Errorf("low stock count = %d, want 1", d.LowStockCount)
	}
	if len(d.TopProducts) != 1 || d.TopProducts[0].Revenue != 500 {
		t.Errorf("top products = %+v", d.TopProducts)
	}

	// second call serves the cached snapshot
	cached, err := svc.DashboardSnapshot(tenant)
	if err != nil {
		t.Fatalf("cached DashboardSnapshot: %v", err)
	}
	if cached.Revenue != 500 {
		t.Errorf("cached revenue = %.2f, want 500", cached.Revenue)
	}
}
