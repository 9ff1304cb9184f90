package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/config"
	"github.com/skandal1st/loungepos/core/auth"
	orderService "github.com/skandal1st/loungepos/service/order"
)

func init() {
	api.RegisterModule(RegisterOrderRoutes)
}

func RegisterOrderRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc := orderService.NewOrderService(db, config.AppConfig.AllowNegativeStock)
	g := apiGroup.Group("/orders")

	// GET /api/orders?status=open
	g.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		orders, err := svc.List(sess.TenantID, c.QueryParam("status"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	})

	g.GET("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		order, err := svc.Get(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	g.POST("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			TableID *uint `json:"table_id"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		order, err := svc.Create(sess.TenantID, sess.UserID, body.TableID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, order)
	})

	// POST /api/orders/:id/items is a delta add: positive grows the line,
	// negative shrinks it, zero means one
	g.POST("/:id/items", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		order, err := svc.AddItem(sess.TenantID, api.ParamID(c, "id"), body.ProductID, body.Quantity)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	// PUT /api/orders/:id/items/:itemId sets an absolute quantity
	g.PUT("/:id/items/:itemId", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		order, err := svc.SetItemQuantity(sess.TenantID, api.ParamID(c, "id"), api.ParamID(c, "itemId"), body.Quantity)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	g.DELETE("/:id/items/:itemId", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		order, err := svc.RemoveItem(sess.TenantID, api.ParamID(c, "id"), api.ParamID(c, "itemId"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	g.POST("/:id/close", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			PaymentMethod string `json:"payment_method"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		order, err := svc.Close(sess.TenantID, api.ParamID(c, "id"), body.PaymentMethod)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	g.POST("/:id/cancel", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := svc.Cancel(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
	})
}
