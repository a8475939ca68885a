package repository

import (
	"context"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
}
