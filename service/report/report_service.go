package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/config"
	"github.com/skandal1st/loungepos/core/apperr"
	"github.com/skandal1st/loungepos/core/cache"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
	orderEntity "github.com/skandal1st/loungepos/model/entity/order"
	registerEntity "github.com/skandal1st/loungepos/model/entity/register"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
	orderRepo "github.com/skandal1st/loungepos/model/repository/order"
	registerRepo "github.com/skandal1st/loungepos/model/repository/register"
)

// ReportService produces read-only rollups over closed orders. Cost figures
// always come from the cost_price snapshots on order items, never from the
// live catalog, so profit history survives later cost changes.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

const dashboardTTL = 30 // seconds

// periodExpr returns the SQL expression grouping closed_at into a day or
// month bucket for the connected dialect (postgres in production, sqlite in
// tests).
func (s *ReportService) periodExpr(group string) string {
	sqlite := s.db.Dialector.Name() == "sqlite"
	switch group {
	case "month":
		if sqlite {
			return "strftime('%Y-%m', o.closed_at)"
		}
		return "to_char(o.closed_at, 'YYYY-MM')"
	default:
		if sqlite {
			return "strftime('%Y-%m-%d', o.closed_at)"
		}
		return "to_char(o.closed_at, 'YYYY-MM-DD')"
	}
}

func (s *ReportService) hourExpr() string {
	if s.db.Dialector.Name() == "sqlite" {
		return "strftime('%H', o.closed_at)"
	}
	return "to_char(o.closed_at, 'HH24')"
}

// --- sales by period ---

type SalesRow struct {
	Period      string  `json:"period"`
	OrdersCount int     `json:"orders_count"`
	Revenue     float64 `json:"revenue"`
	CashTotal   float64 `json:"cash_total"`
	CardTotal   float64 `json:"card_total"`
	Cost        float64 `json:"cost"`
	Profit      float64 `json:"profit"`
}

type SalesSummary struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCash    float64 `json:"total_cash"`
	TotalCard    float64 `json:"total_card"`
	TotalCost    float64 `json:"total_cost"`
	TotalProfit  float64 `json:"total_profit"`
}

type SalesReport struct {
	Sales   []SalesRow   `json:"sales"`
	Summary SalesSummary `json:"summary"`
}

// Sales aggregates closed orders between from and to (inclusive days) into
// day or month buckets with a cash/card split and snapshot-based cost.
func (s *ReportService) Sales(tenantID uint, from, to time.Time, group string) (*SalesReport, error) {
	lo, hi := dayRange(from, to)
	period := s.periodExpr(group)

	var rows []SalesRow
	err := s.db.Raw(fmt.Sprintf(`
		SELECT %s AS period,
		       COUNT(*) AS orders_count,
		       COALESCE(SUM(o.total), 0) AS revenue,
		       COALESCE(SUM(CASE WHEN o.payment_method = 'cash' THEN o.total ELSE 0 END), 0) AS cash_total,
		       COALESCE(SUM(CASE WHEN o.payment_method = 'card' THEN o.total ELSE 0 END), 0) AS card_total
		FROM orders o
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY %s
		ORDER BY period`, period, period), lo, hi, tenantID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	type costRow struct {
		Period    string
		TotalCost float64
	}
	var costs []costRow
	err = s.db.Raw(fmt.Sprintf(`
		SELECT %s AS period,
		       COALESCE(SUM(oi.cost_price * oi.quantity), 0) AS total_cost
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY %s`, period, period), lo, hi, tenantID).Scan(&costs).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	costMap := make(map[string]float64, len(costs))
	for _, c := range costs {
		costMap[c.Period] = c.TotalCost
	}

	report := &SalesReport{Sales: make([]SalesRow, 0, len(rows))}
	for _, row := range rows {
		row.Cost = costMap[row.Period]
		row.Profit = row.Revenue - row.Cost
		report.Sales = append(report.Sales, row)

		report.Summary.TotalOrders += row.OrdersCount
		report.Summary.TotalRevenue += row.Revenue
		report.Summary.TotalCash += row.CashTotal
		report.Summary.TotalCard += row.CardTotal
		report.Summary.TotalCost += row.Cost
	}
	report.Summary.TotalProfit = report.Summary.TotalRevenue - report.Summary.TotalCost
	return report, nil
}

// --- product/category rollups ---

type ProductSalesRow struct {
	ProductName  string  `json:"product_name"`
	TotalQty     int     `json:"total_qty"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`
}

type CategorySalesRow struct {
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalQty     int     `json:"total_qty"`
}

type ProductReport struct {
	Products   []ProductSalesRow  `json:"products"`
	Categories []CategorySalesRow `json:"categories"`
}

// ProductStats rolls closed-order items up per product (top 20 by revenue)
// and per category over a date range.
func (s *ReportService) ProductStats(tenantID uint, from, to time.Time) (*ProductReport, error) {
	lo, hi := dayRange(from, to)

	var products []ProductSalesRow
	err := s.db.Raw(`
		SELECT oi.product_name,
		       COALESCE(SUM(oi.quantity), 0) AS total_qty,
		       COALESCE(SUM(oi.total), 0) AS total_revenue,
		       COALESCE(SUM(oi.cost_price * oi.quantity), 0) AS total_cost
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY oi.product_id, oi.product_name
		ORDER BY total_revenue DESC
		LIMIT 20`, lo, hi, tenantID).Scan(&products).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var categories []CategorySalesRow
	err = s.db.Raw(`
		SELECT c.name, c.color,
		       COALESCE(SUM(oi.total), 0) AS total_revenue,
		       COALESCE(SUM(oi.quantity), 0) AS total_qty
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY c.id, c.name, c.color
		ORDER BY total_revenue DESC`, lo, hi, tenantID).Scan(&categories).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return &ProductReport{Products: products, Categories: categories}, nil
}

// --- inventory valuation ---

type InventoryRow struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	MinQuantity  float64 `json:"min_quantity"`
	Unit         string  `json:"unit"`
	CostPrice    float64 `json:"cost_price"`
	StockValue   float64 `json:"stock_value"`
	CategoryName string  `json:"category_name"`
	IsLowStock   bool    `json:"is_low_stock"`
}

type InventoryReport struct {
	Items      []InventoryRow           `json:"items"`
	TotalValue float64                  `json:"total_value"`
	Categories []catalogEntity.Category `json:"categories"`
}

// Inventory values the tracked stock, optionally filtered to one category.
func (s *ReportService) Inventory(tenantID uint, categoryID *uint) (*InventoryReport, error) {
	q := s.db.Table("products p").
		Select(`p.id, p.name, p.quantity, p.min_quantity, p.unit, p.cost_price,
			(p.quantity * p.cost_price) AS stock_value,
			c.name AS category_name,
			(p.min_quantity > 0 AND p.quantity <= p.min_quantity) AS is_low_stock`).
		Joins("JOIN categories c ON p.category_id = c.id").
		Where("p.active = ? AND p.track_inventory = ? AND p.tenant_id = ?", true, true, tenantID).
		Order("c.sort_order, p.name")
	if categoryID != nil {
		q = q.Where("p.category_id = ?", *categoryID)
	}

	var items []InventoryRow
	if err := q.Scan(&items).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	report := &InventoryReport{Items: items}
	for _, item := range items {
		report.TotalValue += item.StockValue
	}

	cats, err := catalogRepo.GetCatalogRepository(s.db).Categories(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	report.Categories = cats
	return report, nil
}

// --- dashboard ---

type TrendPoint struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	Revenue     float64 `json:"revenue"`
}

type CategoryShare struct {
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Revenue float64 `json:"revenue"`
}

type Dashboard struct {
	Revenue       float64         `json:"revenue"`
	Profit        float64         `json:"profit"`
	OrdersCount   int             `json:"orders_count"`
	RevenueChange int             `json:"revenue_change"`
	OpenOrders    int64           `json:"open_orders"`
	StockValue    float64         `json:"stock_value"`
	LowStockCount int64           `json:"low_stock_count"`
	Trend         []TrendPoint    `json:"trend"`
	TopProducts   []TopProduct    `json:"top_products"`
	CategorySales []CategoryShare `json:"category_sales"`
}

// DashboardSnapshot assembles the live overview for today: revenue, profit,
// open orders, stock value, 7-day trend, top products and category split.
// Cached briefly (Redis when configured, in-process otherwise) since the
// dashboard polls.
func (s *ReportService) DashboardSnapshot(tenantID uint) (*Dashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:%d", tenantID)
	if config.RedisClient != nil {
		if raw, err := config.RedisClient.Get(config.RedisCtx(), cacheKey).Result(); err == nil {
			var d Dashboard
			if json.Unmarshal([]byte(raw), &d) == nil {
				return &d, nil
			}
		}
	} else if v, ok := cache.GetInstance().Get(cacheKey); ok {
		if d, ok := v.(*Dashboard); ok {
			return d, nil
		}
	}

	d, err := s.buildDashboard(tenantID)
	if err != nil {
		return nil, err
	}

	if config.RedisClient != nil {
		if raw, err := json.Marshal(d); err == nil {
			config.RedisClient.Set(config.RedisCtx(), cacheKey, raw, dashboardTTL*time.Second)
		}
	} else {
		cache.GetInstance().Set(cacheKey, d, dashboardTTL, []string{"dashboard"})
	}
	return d, nil
}

func (s *ReportService) buildDashboard(tenantID uint) (*Dashboard, error) {
	now := time.Now()
	todayLo, todayHi := dayRange(now, now)
	weekAgoLo, weekAgoHi := dayRange(now.AddDate(0, 0, -7), now.AddDate(0, 0, -7))

	d := &Dashboard{
		Trend:         []TrendPoint{},
		TopProducts:   []TopProduct{},
		CategorySales: []CategoryShare{},
	}

	type dayStats struct {
		OrdersCount int
		Revenue     float64
	}
	var today dayStats
	err := s.db.Raw(`
		SELECT COUNT(*) AS orders_count, COALESCE(SUM(o.total), 0) AS revenue
		FROM orders o
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?`,
		todayLo, todayHi, tenantID).Scan(&today).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var todayCost float64
	err = s.db.Raw(`
		SELECT COALESCE(SUM(oi.cost_price * oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?`,
		todayLo, todayHi, tenantID).Scan(&todayCost).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var weekAgo dayStats
	err = s.db.Raw(`
		SELECT COUNT(*) AS orders_count, COALESCE(SUM(o.total), 0) AS revenue
		FROM orders o
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?`,
		weekAgoLo, weekAgoHi, tenantID).Scan(&weekAgo).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	d.Revenue = today.Revenue
	d.Profit = today.Revenue - todayCost
	d.OrdersCount = today.OrdersCount
	if weekAgo.Revenue > 0 {
		d.RevenueChange = int(((today.Revenue - weekAgo.Revenue) / weekAgo.Revenue) * 100)
	}

	openOrders, err := orderRepo.GetOrderRepository(s.db).CountOpen(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	d.OpenOrders = openOrders

	stockValue, err := catalogRepo.GetCatalogRepository(s.db).StockValue(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	d.StockValue = stockValue

	err = s.db.Model(&catalogEntity.Product{}).
		Where("active = ? AND track_inventory = ? AND min_quantity > 0 AND quantity <= min_quantity AND tenant_id = ?",
			true, true, tenantID).
		Count(&d.LowStockCount).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	trendLo, _ := dayRange(now.AddDate(0, 0, -6), now)
	period := s.periodExpr("day")
	err = s.db.Raw(fmt.Sprintf(`
		SELECT %s AS day, COALESCE(SUM(o.total), 0) AS revenue
		FROM orders o
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY %s
		ORDER BY day`, period, period), trendLo, todayHi, tenantID).Scan(&d.Trend).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	err = s.db.Raw(`
		SELECT oi.product_name, COALESCE(SUM(oi.quantity), 0) AS qty, COALESCE(SUM(oi.total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY oi.product_id, oi.product_name
		ORDER BY revenue DESC LIMIT 5`, todayLo, todayHi, tenantID).Scan(&d.TopProducts).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	err = s.db.Raw(`
		SELECT c.name, c.color, COALESCE(SUM(oi.total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE o.status = 'closed' AND o.closed_at >= ? AND o.closed_at < ? AND o.tenant_id = ?
		GROUP BY c.id, c.name, c.color
		ORDER BY revenue DESC`, todayLo, todayHi, tenantID).Scan(&d.CategorySales).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return d, nil
}

// --- shift report ---

type ShiftOrder struct {
	ID            uint       `json:"id"`
	Total         float64    `json:"total"`
	PaymentMethod *string    `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	ClosedAt      *time.Time `json:"closed_at"`
}

type HourBucket struct {
	Hour        string  `json:"hour"`
	Revenue     float64 `json:"revenue"`
	OrdersCount int     `json:"orders_count"`
}

type ShiftReport struct {
	Shift       *registerEntity.RegisterDay `json:"shift"`
	Revenue     float64                     `json:"revenue"`
	Profit      float64                     `json:"profit"`
	OrdersCount int                         `json:"orders_count"`
	AvgCheck    float64                     `json:"avg_check"`
	Orders      []ShiftOrder                `json:"orders"`
	TopProducts []TopProduct                `json:"top_products"`
	Hourly      []HourBucket                `json:"hourly"`
}

// Shift summarizes one register day: its closed orders, snapshot-cost
// profit, average check and hourly revenue buckets.
func (s *ReportService) Shift(tenantID, dayID uint) (*ShiftReport, error) {
	day, err := registerRepo.GetRegisterRepository(s.db).ByID(tenantID, dayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shift not found")
		}
		return nil, apperr.Persistence(err)
	}

	report := &ShiftReport{
		Shift:       day,
		Orders:      []ShiftOrder{},
		TopProducts: []TopProduct{},
		Hourly:      []HourBucket{},
	}

	err = s.db.Model(&orderEntity.Order{}).
		Select("id, total, payment_method, created_at, closed_at").
		Where("register_day_id = ? AND status = ?", day.ID, orderEntity.StatusClosed).
		Order("closed_at").
		Scan(&report.Orders).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var totalCost float64
	err = s.db.Raw(`
		SELECT COALESCE(SUM(oi.cost_price * oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.register_day_id = ? AND o.status = 'closed'`, day.ID).Scan(&totalCost).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	for _, o := range report.Orders {
		report.Revenue += o.Total
	}
	report.Profit = report.Revenue - totalCost
	report.OrdersCount = len(report.Orders)
	if report.OrdersCount > 0 {
		// rounded to a whole amount, the number is for the shift summary
		report.AvgCheck = math.Round(report.Revenue / float64(report.OrdersCount))
	}

	err = s.db.Raw(`
		SELECT oi.product_name, COALESCE(SUM(oi.quantity), 0) AS qty, COALESCE(SUM(oi.total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.register_day_id = ? AND o.status = 'closed'
		GROUP BY oi.product_id, oi.product_name
		ORDER BY revenue DESC LIMIT 5`, day.ID).Scan(&report.TopProducts).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	hour := s.hourExpr()
	err = s.db.Raw(fmt.Sprintf(`
		SELECT %s AS hour, COALESCE(SUM(o.total), 0) AS revenue, COUNT(*) AS orders_count
		FROM orders o
		WHERE o.register_day_id = ? AND o.status = 'closed'
		GROUP BY %s
		ORDER BY hour`, hour, hour), day.ID).Scan(&report.Hourly).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return report, nil
}

// dayRange converts two dates into a half-open [start of from, start of the
// day after to) timestamp range, so closed_at comparisons stay index-friendly
// and dialect-neutral.
func dayRange(from, to time.Time) (time.Time, time.Time) {
	lo := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	hi := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return lo, hi
}
