package repository

import (
	"context"
	"errors"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
	Featured *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	//同じカテゴリの公開商品（excludeIDは除く）
	ListByCategory(ctx context.Context, category string, excludeID string) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	//サイズ在庫は丸ごと置き換える
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id string) error
}
