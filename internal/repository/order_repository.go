package repository

import (
	"context"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Statut string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	//明細も含めて1件取得
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) (string, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	Delete(ctx context.Context, orderID string) error

	//管理者用の注文一覧
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
