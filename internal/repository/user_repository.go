package repository

import (
	"context"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

// 管理者の保存・取得を約束
type AdminUserRepository interface {
	Create(ctx context.Context, user *model.AdminUser) error
	//見つからないときは ErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Update(ctx context.Context, user *model.AdminUser) error
}
