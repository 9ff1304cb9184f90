package session

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/api"
	"github.com/skandal1st/loungepos/core/apperr"
	"github.com/skandal1st/loungepos/core/auth"
	"github.com/skandal1st/loungepos/core/quota"
	"github.com/skandal1st/loungepos/model/entity"
	authRepo "github.com/skandal1st/loungepos/model/repository/auth"
)

func init() {
	api.RegisterModule(RegisterSessionRoutes)
}

func RegisterSessionRoutes(apiGroup *echo.Group, db *gorm.DB) {
	users := authRepo.GetAuthRepository(db)

	// POST /api/auth/login is public (listed in auth skipper paths)
	apiGroup.POST("/auth/login", func(c echo.Context) error {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Username == "" || body.Password == "" {
			return api.Fail(c, apperr.Validation("username and password are required"))
		}

		user, err := users.FindActiveByUsername(body.Username)
		if err != nil || !auth.CheckPassword(user.Password, body.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		token, err := auth.IssueToken(user)
		if err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
	})

	apiGroup.GET("/auth/me", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		user, err := users.ByID(sess.TenantID, sess.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return api.Fail(c, apperr.NotFound("user not found"))
			}
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, user)
	})

	g := apiGroup.Group("/users", auth.RequireAdmin)

	g.GET("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		list, err := users.Users(sess.TenantID)
		if err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if err := quota.CheckLimit(db, sess.TenantID, quota.ResourceUsers); err != nil {
			return api.Fail(c, err)
		}

		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Name     string `json:"name"`
			Role     string `json:"role"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Username == "" || body.Password == "" || body.Name == "" {
			return api.Fail(c, apperr.Validation("username, password and name are required"))
		}
		if body.Role == "" {
			body.Role = entity.RoleCashier
		}
		if body.Role != entity.RoleAdmin && body.Role != entity.RoleCashier {
			return api.Fail(c, apperr.Validation("unknown role %q", body.Role))
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		user := &entity.User{
			TenantID: sess.TenantID,
			Username: body.Username,
			Password: hash,
			Name:     body.Name,
			Role:     body.Role,
			Active:   true,
		}
		if err := users.Create(user); err != nil {
			return api.Fail(c, apperr.Conflict("username is already taken"))
		}
		return c.JSON(http.StatusCreated, user)
	})

	g.PUT("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		user, err := users.ByID(sess.TenantID, api.ParamID(c, "id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return api.Fail(c, apperr.NotFound("user not found"))
			}
			return api.Fail(c, apperr.Persistence(err))
		}

		var body struct {
			Password *string `json:"password"`
			Name     *string `json:"name"`
			Role     *string `json:"role"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Name != nil {
			user.Name = *body.Name
		}
		if body.Role != nil {
			if *body.Role != entity.RoleAdmin && *body.Role != entity.RoleCashier {
				return api.Fail(c, apperr.Validation("unknown role %q", *body.Role))
			}
			user.Role = *body.Role
		}
		if body.Password != nil && *body.Password != "" {
			hash, err := auth.HashPassword(*body.Password)
			if err != nil {
				return api.Fail(c, apperr.Persistence(err))
			}
			user.Password = hash
		}
		if err := users.Update(user); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.JSON(http.StatusOK, user)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		sess := auth.CurrentSession(c)
		if api.ParamID(c, "id") == sess.UserID {
			return api.Fail(c, apperr.Validation("cannot deactivate your own account"))
		}
		if err := users.Deactivate(sess.TenantID, api.ParamID(c, "id")); err != nil {
			return api.Fail(c, apperr.Persistence(err))
		}
		return c.NoContent(http.StatusNoContent)
	})
}
