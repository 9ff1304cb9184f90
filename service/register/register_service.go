package register

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	registerEntity "github.com/skandal1st/loungepos/model/entity/register"
	orderRepo "github.com/skandal1st/loungepos/model/repository/order"
	registerRepo "github.com/skandal1st/loungepos/model/repository/register"
)

// RegisterService manages cash shifts: one open day per tenant, opened with
// a float and closed against a physical count.
type RegisterService struct {
	db *gorm.DB
}

func NewRegisterService(db *gorm.DB) *RegisterService {
	return &RegisterService{db: db}
}

// Current returns the open register day, or nil when none is open.
func (s *RegisterService) Current(tenantID uint) (*registerEntity.RegisterDay, error) {
	day, err := registerRepo.GetRegisterRepository(s.db).CurrentOpen(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence(err)
	}
	return day, nil
}

// History returns recent shifts, newest first.
func (s *RegisterService) History(tenantID uint) ([]registerEntity.RegisterDay, error) {
	days, err := registerRepo.GetRegisterRepository(s.db).History(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return days, nil
}

// Open starts a shift. Expected cash starts at the opening float; cash
// sales grow it as orders close.
func (s *RegisterService) Open(tenantID, userID uint, openingCash float64) (*registerEntity.RegisterDay, error) {
	if openingCash < 0 {
		return nil, apperr.Validation("opening cash cannot be negative")
	}
	regs := registerRepo.GetRegisterRepository(s.db)
	if _, err := regs.CurrentOpen(tenantID); err == nil {
		return nil, apperr.Conflict("register day is already open")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err)
	}

	day := &registerEntity.RegisterDay{
		TenantID:     tenantID,
		OpenedBy:     userID,
		OpeningCash:  openingCash,
		ExpectedCash: openingCash,
		Status:       registerEntity.StatusOpen,
	}
	if err := regs.Create(day); err != nil {
		return nil, apperr.Persistence(err)
	}
	return day, nil
}

// Close ends the shift. Every order on the day must be closed or cancelled
// first. actualCash defaults to the expected amount when the caller skips
// the count; the discrepancy (actual - expected) is left for reporting.
func (s *RegisterService) Close(tenantID, userID uint, actualCash *float64) (*registerEntity.RegisterDay, error) {
	regs := registerRepo.GetRegisterRepository(s.db)
	day, err := regs.CurrentOpen(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("no open register day")
		}
		return nil, apperr.Persistence(err)
	}

	openCount, err := orderRepo.GetOrderRepository(s.db).CountOpenByDay(day.ID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if openCount > 0 {
		return nil, apperr.Conflict("%d orders are still open", openCount).
			WithMeta("open_orders", openCount)
	}

	actual := day.ExpectedCash
	if actualCash != nil {
		actual = *actualCash
	}
	now := time.Now()
	day.Status = registerEntity.StatusClosed
	day.ClosedAt = &now
	day.ClosedBy = &userID
	day.ActualCash = &actual
	if err := regs.Update(day); err != nil {
		return nil, apperr.Persistence(err)
	}
	return day, nil
}
