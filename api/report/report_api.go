package report

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/auth"
	reportService "github.com/skandal1st/loungepos/service/report"
)

func init() {
	api.RegisterModule(RegisterReportRoutes)
}

// dateRange parses from/to query params (YYYY-MM-DD), defaulting to the
// last 30 days.
func dateRange(c echo.Context) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if v := c.QueryParam("from"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			from = t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			to = t
		}
	}
	return from, to
}

func RegisterReportRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc := reportService.NewReportService(db)
	g := apiGroup.Group("/reports", auth.RequireAdmin)

	// GET /api/reports/sales?from=...&to=...&group=day|month
	g.GET("/sales", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		from, to := dateRange(c)
		report, err := svc.Sales(sess.TenantID, from, to, c.QueryParam("group"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, report)
	})

	g.GET("/products", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		from, to := dateRange(c)
		report, err := svc.ProductStats(sess.TenantID, from, to)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, report)
	})

	// GET /api/reports/inventory?category_id=N
	g.GET("/inventory", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var categoryID *uint
		if id := api.ParamIDFromQuery(c, "category_id"); id != 0 {
			categoryID = &id
		}
		report, err := svc.Inventory(sess.TenantID, categoryID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, report)
	})

	g.GET("/dashboard", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		dashboard, err := svc.DashboardSnapshot(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, dashboard)
	})

	g.GET("/shifts/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		report, err := svc.Shift(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, report)
	})
}
