package repository

import (
	"context"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pushSubscriptionGormRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionGormRepository(db *gorm.DB) repo.PushSubscriptionRepository {
	return &pushSubscriptionGormRepository{db: db}
}

// (user_id, platform) の一意制約で上書き
func (r *pushSubscriptionGormRepository) Upsert(ctx context.Context, sub model.PushSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"subscription", "updated_at"}),
	}).Create(&sub).Error
}

func (r *pushSubscriptionGormRepository) DeleteByUserPlatform(ctx context.Context, userID string, platform string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		Delete(&model.PushSubscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *pushSubscriptionGormRepository) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PushSubscription{}).Error
}

func (r *pushSubscriptionGormRepository) ListAll(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := r.db.WithContext(ctx).Order("updated_at desc").Find(&subs).Error; err != nil {
		return []model.PushSubscription{}, err
	}
	return subs, nil
}

func (r *pushSubscriptionGormRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if len(userIDs) == 0 {
		return []model.PushSubscription{}, nil
	}
	var subs []model.PushSubscription
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&subs).Error; err != nil {
		return []model.PushSubscription{}, err
	}
	return subs, nil
}
