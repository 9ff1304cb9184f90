package floor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/apperr"
	"github.com/skandal1st/loungepos/core/auth"
	"github.com/skandal1st/loungepos/core/quota"
	floorEntity "github.com/skandal1st/loungepos/model/entity/floor"
	floorRepo "github.com/skandal1st/loungepos/model/repository/floor"
)

func init() {
	api.RegisterModule(RegisterFloorRoutes)
}

func RegisterFloorRoutes(apiGroup *echo.Group, db *gorm.DB) {
	floors := floorRepo.GetFloorRepository(db)

	// --- halls ---

	hg := apiGroup.Group("/halls")

	hg.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		halls, err := floors.Halls(sess.TenantID)
		if err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, halls)
	})

	hg.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := quota.CheckLimit(db, sess.TenantID, quota.ResourceHalls); err != nil {
			return api.Fail(c, err)
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Name == "" {
			return api.Fail(c, apperr.Validation("hall name is required"))
		}
		hall := &floorEntity.Hall{TenantID: sess.TenantID, Name: body.Name, Active: true}
		if err := floors.CreateHall(hall); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusCreated, hall)
	}))

	hg.PUT("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		hall, err := floors.HallByID(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return api.Fail(c, apperr.NotFound("hall not found"))
			}
			return api.Fail(c, apperr.Persistence(err))
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Name != "" {
			hall.Name = body.Name
		}
		if err := floors.UpdateHall(hall); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, hall)
	}))

	hg.DELETE("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := floors.DeactivateHall(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.NoContent(http.StatusNoContent)
	}))

	// --- tables ---

	tg := apiGroup.Group("/tables")

	// GET /api/tables?hall_id=N
	tg.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var (
			tables []floorEntity.Table
			err    error
		)
		if hallID := api.ParamIDFromQuery(c, "hall_id"); hallID != 0 {
			tables, err = floors.TablesByHall(sess.TenantID, hallID)
		} else {
			tables, err = floors.Tables(sess.TenantID)
		}
		if err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, tables)
	})

	tg.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body floorEntity.Table
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.HallID == 0 || body.Number <= 0 {
			return api.Fail(c, apperr.Validation("hall_id and a positive number are required"))
		}
		if _, err := floors.HallByID(sess.TenantID, body.HallID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return api.Fail(c, apperr.NotFound("hall not found"))
			}
			return api.Fail(c, apperr.Persistence(err))
		}
		if _, err := floors.TableByNumber(sess.TenantID, body.HallID, body.Number); err == nil {
			return api.Fail(c, apperr.Conflict("table %d already exists in this hall", body.Number))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return api.Fail(c, apperr.Persistence(err))
		}

		body.ID = 0
		body.TenantID = sess.TenantID
		body.Active = true
		if body.Shape == "" {
			body.Shape = floorEntity.ShapeSquare
		}
		if body.Seats <= 0 {
			body.Seats = 4
		}
		if err := floors.CreateTable(&body); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusCreated, body)
	}))

	tg.PUT("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		table, err := floors.TableByID(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return api.Fail(c, apperr.NotFound("table not found"))
			}
			return api.Fail(c, apperr.Persistence(err))
		}
		var body struct {
			Number *int     `json:"number"`
			X      *float64 `json:"x"`
			Y      *float64 `json:"y"`
			Seats  *int     `json:"seats"`
			Shape  *string  `json:"shape"`
			Width  *float64 `json:"width"`
			Height *float64 `json:"height"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Number != nil {
			table.Number = *body.Number
		}
		if body.X != nil {
			table.X = *body.X
		}
		if body.Y != nil {
			table.Y = *body.Y
		}
		if body.Seats != nil {
			table.Seats = *body.Seats
		}
		if body.Shape != nil {
			table.Shape = *body.Shape
		}
		if body.Width != nil {
			table.Width = *body.Width
		}
		if body.Height != nil {
			table.Height = *body.Height
		}
		if err := floors.UpdateTable(table); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, table)
	}))

	tg.DELETE("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := floors.DeactivateTable(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.NoContent(http.StatusNoContent)
	}))
}
