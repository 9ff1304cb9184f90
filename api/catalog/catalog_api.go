package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/auth"
	"github.com/skandal1st/loungepos/core/quota"
	catalogService "github.com/skandal1st/loungepos/service/catalog"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc := catalogService.NewCatalogService(db)

	// --- categories ---

	g := apiGroup.Group("/categories")

	g.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		cats, err := svc.Categories(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, cats)
	})

	g.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Name      string `json:"name"`
			Color     string `json:"color"`
			SortOrder int    `json:"sort_order"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		cat, err := svc.CreateCategory(sess.TenantID, body.Name, body.Color, body.SortOrder)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, cat)
	}))

	g.PUT("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Name      string `json:"name"`
			Color     string `json:"color"`
			SortOrder *int   `json:"sort_order"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		cat, err := svc.UpdateCategory(sess.TenantID, api.ParamID(c, "id"), body.Name, body.Color, body.SortOrder)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	}))

	g.DELETE("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := svc.DeleteCategory(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}))

	// --- products ---

	p := apiGroup.Group("/products")

	p.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		products, err := svc.Products(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})

	p.GET("/low-stock", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		products, err := svc.LowStock(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})

	p.GET("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		view, err := svc.Product(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, view)
	})

	p.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := quota.CheckLimit(db, sess.TenantID, quota.ResourceProducts); err != nil {
			return api.Fail(c, err)
		}
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		product, err := svc.CreateProduct(sess.TenantID, in)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, product)
	}))

	p.PUT("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		product, err := svc.UpdateProduct(sess.TenantID, api.ParamID(c, "id"), in)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, product)
	}))

	p.DELETE("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := svc.DeleteProduct(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}))

	// PUT /api/products/:id/recipe replaces the BOM and recomputes cost
	p.PUT("/:id/recipe", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var body struct {
			Ingredients       []catalogService.RecipeLinkInput `json:"ingredients"`
			OutputAmount      *float64                         `json:"output_amount"`
			RecipeDescription *string                          `json:"recipe_description"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		product, err := svc.SetRecipe(sess.TenantID, api.ParamID(c, "id"), body.Ingredients, body.OutputAmount, body.RecipeDescription)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, product)
	}))

	// --- ingredients ---

	ing := apiGroup.Group("/ingredients")

	ing.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		list, err := svc.Ingredients(sess.TenantID)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	ing.GET("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		item, err := svc.Ingredient(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, item)
	})

	ing.POST("", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := quota.CheckLimit(db, sess.TenantID, quota.ResourceProducts); err != nil {
			return api.Fail(c, err)
		}
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		item, err := svc.CreateIngredient(sess.TenantID, in)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, item)
	}))

	ing.PUT("/:id", auth.RequireAdmin(func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		item, err := svc.UpdateProduct(sess.TenantID, api.ParamID(c, "id"), in)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, item)
	}))
}
