package quota

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	"github.com/skandal1st/loungepos/core/auth"
	authRepo "github.com/skandal1st/loungepos/model/repository/auth"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
	floorRepo "github.com/skandal1st/loungepos/model/repository/floor"
	tenantRepo "github.com/skandal1st/loungepos/model/repository/tenant"
)

// Resource names a plan-limited entity.
type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceHalls    Resource = "halls"
	ResourceProducts Resource = "products"
)

// CheckSubscription verifies the tenant has an active or trialing
// subscription whose period has not lapsed.
func CheckSubscription(db *gorm.DB, tenantID uint) error {
	plan, err := tenantRepo.GetTenantRepository(db).ActiveSubscription(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Authorization("no active subscription")
		}
		return apperr.Persistence(err)
	}
	if end := plan.Subscription.CurrentPeriodEnd; end != nil && end.Before(time.Now()) {
		return apperr.Authorization("subscription period has ended")
	}
	return nil
}

// Middleware rejects requests from tenants without a live subscription.
// Runs after the auth middleware; requests on unauthenticated paths carry
// no session and pass through.
func Middleware(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := auth.CurrentSession(c)
			if sess.TenantID == 0 {
				return next(c)
			}
			if err := CheckSubscription(db, sess.TenantID); err != nil {
				ae := apperr.As(err)
				return c.JSON(ae.HTTPStatus(), echo.Map{"error": ae.Message})
			}
			return next(c)
		}
	}
}

// CheckLimit verifies the tenant can create one more of the resource under
// its plan. A zero limit on the plan means unlimited.
func CheckLimit(db *gorm.DB, tenantID uint, resource Resource) error {
	plan, err := tenantRepo.GetTenantRepository(db).ActiveSubscription(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Authorization("no active subscription")
		}
		return apperr.Persistence(err)
	}

	var limit int
	var count int64
	switch resource {
	case ResourceUsers:
		limit = plan.Plan.MaxUsers
		count, err = authRepo.GetAuthRepository(db).CountActive(tenantID)
	case ResourceHalls:
		limit = plan.Plan.MaxHalls
		count, err = floorRepo.GetFloorRepository(db).CountActiveHalls(tenantID)
	case ResourceProducts:
		limit = plan.Plan.MaxProducts
		count, err = catalogRepo.GetCatalogRepository(db).CountActiveProducts(tenantID)
	default:
		return apperr.Validation("unknown resource %q", resource)
	}
	if err != nil {
		return apperr.Persistence(err)
	}

	if limit > 0 && count >= int64(limit) {
		return apperr.QuotaExceeded("plan limit reached: %d %s", limit, resource).
			WithMeta("limit", limit).
			WithMeta("resource", string(resource))
	}
	return nil
}
