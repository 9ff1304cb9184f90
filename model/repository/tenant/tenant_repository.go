package tenant

import (
	"sync"
	"time"

	"gorm.io/gorm"

	entity "github.com/skandal1st/loungepos/model/entity"
)

// TenantRepository resolves tenants, plans and subscriptions. Quota counts
// live on the owning repositories; this one answers "what plan applies".
type TenantRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *TenantRepository

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func GetTenantRepository(db *gorm.DB) *TenantRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*TenantRepository)
	}
	v, _ := instances.LoadOrStore(db, NewTenantRepository(db))
	return v.(*TenantRepository)
}

func (r *TenantRepository) ByID(id uint) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ActivePlan holds the resolved subscription joined with its plan limits.
type ActivePlan struct {
	Subscription entity.Subscription
	Plan         entity.Plan
}

// ActiveSubscription returns the newest active or trialing subscription for
// a tenant with its plan, or gorm.ErrRecordNotFound.
func (r *TenantRepository) ActiveSubscription(tenantID uint) (*ActivePlan, error) {
	var sub entity.Subscription
	err := r.db.Where("tenant_id = ? AND status IN ?", tenantID,
		[]string{entity.SubscriptionActive, entity.SubscriptionTrialing}).
		Order("id DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	var plan entity.Plan
	if err := r.db.Where("id = ?", sub.PlanID).First(&plan).Error; err != nil {
		return nil, err
	}
	return &ActivePlan{Subscription: sub, Plan: plan}, nil
}

// MarkPastDue flips expired active/trialing subscriptions to past_due and
// returns how many rows changed. Used by the hourly sweep job.
func (r *TenantRepository) MarkPastDue() (int64, error) {
	res := r.db.Model(&entity.Subscription{}).
		Where("status IN ? AND current_period_end IS NOT NULL AND current_period_end < ?",
			[]string{entity.SubscriptionActive, entity.SubscriptionTrialing}, time.Now()).
		Update("status", entity.SubscriptionPastDue)
	return res.RowsAffected, res.Error
}
