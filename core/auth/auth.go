package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/skandal1st/loungepos/config"
	"github.com/skandal1st/loungepos/model/entity"
)

// Claims is the JWT payload. Every request carries the tenant so lower
// layers never have to guess which lounge the caller belongs to.
type Claims struct {
	UserID   uint   `json:"user_id"`
	TenantID uint   `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity stored on the echo context.
type Session struct {
	UserID   uint
	TenantID uint
	Role     string
}

const sessionKey = "auth.session"

// IssueToken signs an HS256 token for the user.
func IssueToken(user *entity.User) (string, error) {
	cfg := config.AppConfig
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.TokenTTLHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Middleware authenticates Bearer tokens and installs the Session on the
// context. Paths in config.GetAuthSkipperPaths pass through unauthenticated.
func Middleware() echo.MiddlewareFunc {
	skipPaths := config.GetAuthSkipperPaths()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			for _, skip := range skipPaths {
				if path == skip {
					return next(c)
				}
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(401, echo.Map{"error": "authentication required"})
			}
			claims, err := ParseToken(raw)
			if err != nil {
				return c.JSON(401, echo.Map{"error": "invalid or expired token"})
			}
			c.Set(sessionKey, Session{
				UserID:   claims.UserID,
				TenantID: claims.TenantID,
				Role:     claims.Role,
			})
			return next(c)
		}
	}
}

// CurrentSession returns the session installed by Middleware. The zero
// Session means the route was reached without authentication.
func CurrentSession(c echo.Context) Session {
	if v, ok := c.Get(sessionKey).(Session); ok {
		return v
	}
	return Session{}
}

// RequireAdmin rejects non-admin sessions. Use as route-level middleware on
// management endpoints.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentSession(c).Role != entity.RoleAdmin {
			return c.JSON(403, echo.Map{"error": "admin access required"})
		}
		return next(c)
	}
}
