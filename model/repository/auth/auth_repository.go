package auth

import (
	"sync"

	"gorm.io/gorm"

	entity "github.com/skandal1st/loungepos/model/entity"
)

type AuthRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *AuthRepository

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func GetAuthRepository(db *gorm.DB) *AuthRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*AuthRepository)
	}
	v, _ := instances.LoadOrStore(db, NewAuthRepository(db))
	return v.(*AuthRepository)
}

// FindActiveByUsername is the login lookup. Usernames are globally unique,
// the tenant comes from the matched row.
func (r *AuthRepository) FindActiveByUsername(username string) (*entity.User, error) {
	var u entity.User
	err := r.db.Where("username = ? AND active = ?", username, true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) ByID(tenantID, id uint) (*entity.User, error) {
	var u entity.User
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) Users(tenantID uint) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("active = ? AND tenant_id = ?", true, tenantID).Order("id").Find(&users).Error
	return users, err
}

func (r *AuthRepository) Create(u *entity.User) error {
	return r.db.Create(u).Error
}

func (r *AuthRepository) Update(u *entity.User) error {
	return r.db.Save(u).Error
}

func (r *AuthRepository) Deactivate(tenantID, id uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

func (r *AuthRepository) CountActive(tenantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&entity.User{}).
		Where("active = ? AND tenant_id = ?", true, tenantID).Count(&n).Error
	return n, err
}
