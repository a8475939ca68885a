package repository

import (
	"context"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

// 管理画面のコメント絞り込み
type CommentListFilter struct {
	ProduitID string
	Flagged   *bool
	Approved  *bool
	Limit     int
	Offset    int
}

type CommentRepository interface {
	Create(ctx context.Context, c model.Comment) error
	FindByID(ctx context.Context, id string) (model.Comment, error)

	//公開用：承認済みのみ新しい順
	ListApprovedByProduct(ctx context.Context, produitID string) ([]model.Comment, error)
	List(ctx context.Context, f CommentListFilter) ([]model.Comment, int64, error)

	Update(ctx context.Context, c model.Comment) error
	Delete(ctx context.Context, id string) error
}
