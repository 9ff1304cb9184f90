package stock

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/auth"
	stockService "github.com/skandal1st/loungepos/service/stock"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	supplies := stockService.NewSupplyService(db)
	inventories := stockService.NewInventoryService(db)

	// --- supplies (goods receipts) ---

	sg := apiGroup.Group("/supplies")

	sg.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		list, err := supplies.List(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	sg.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Supplier string                         `json:"supplier"`
			Note     string                         `json:"note"`
			Items    []stockService.SupplyItemInput `json:"items"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		supply, err := supplies.Receive(sess.TenantID, sess.UserID, body.Supplier, body.Note, body.Items)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, supply)
	}))

	// --- stock-takes ---

	ig := apiGroup.Group("/inventories")

	ig.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		list, err := inventories.List(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	ig.GET("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		inv, err := inventories.Get(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, inv)
	})

	ig.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Note string `json:"note"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		inv, err := inventories.Open(sess.TenantID, sess.UserID, body.Note)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, inv)
	}))

	// PUT /api/inventories/:id/items records physical counts
	ig.PUT("/:id/items", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Items []stockService.CountInput `json:"items"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := inventories.RecordCounts(sess.TenantID, api.ParamID(c, "id"), body.Items); err != nil {
			return api.Fail(c, err)
		}
		inv, err := inventories.Get(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, inv)
	}))

	// POST /api/inventories/:id/apply overwrites stock with counted values
	ig.POST("/:id/apply", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		inv, err := inventories.Apply(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, inv)
	}))
}
