package repository

import (
	"context"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

type PushSubscriptionRepository interface {
	//(user_id, platform) が同じなら置き換える
	Upsert(ctx context.Context, sub model.PushSubscription) error
	DeleteByUserPlatform(ctx context.Context, userID string, platform string) error
	DeleteByID(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]model.PushSubscription, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
}
