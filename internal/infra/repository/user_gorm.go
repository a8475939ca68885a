package repository

import (
	"context"
	"errors"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	domainrepo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"gorm.io/gorm"
)

type adminUserGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewAdminUserGormRepository(db *gorm.DB) domainrepo.AdminUserRepository {
	return &adminUserGormRepository{db: db}
}

// Create は管理者を新規作成
func (r *adminUserGormRepository) Create(ctx context.Context, user *model.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

// emailで管理者を1件取得
func (r *adminUserGormRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var u model.AdminUser

	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

// 管理者を更新。
func (r *adminUserGormRepository) Update(ctx context.Context, user *model.AdminUser) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	return nil
}
