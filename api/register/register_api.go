package register

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/auth"
	registerService "github.com/skandal1st/loungepos/service/register"
)

func init() {
	api.RegisterModule(RegisterRegisterRoutes)
}

func RegisterRegisterRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc := registerService.NewRegisterService(db)
	g := apiGroup.Group("/register")

	// GET /api/register/current returns a null body when no day is open
	g.GET("/current", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		day, err := svc.Current(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, day)
	})

	g.GET("/history", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		days, err := svc.History(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, days)
	})

	g.POST("/open", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			OpeningCash float64 `json:"opening_cash"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		day, err := svc.Open(sess.TenantID, sess.UserID, body.OpeningCash)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, day)
	})

	g.POST("/close", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			ActualCash *float64 `json:"actual_cash"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		day, err := svc.Close(sess.TenantID, sess.UserID, body.ActualCash)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, day)
	})
}
