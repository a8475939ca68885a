package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、カテゴリ/おすすめ/ページング付きで返す。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// 公開（is_active=true）かつ、商品削除されていないものだけ
	tx = tx.Where("is_active = ?", true)

	if c := strings.TrimSpace(q.Category); c != "" {
		tx = tx.Where("category = ?", c)
	}
	if q.Featured != nil {
		tx = tx.Where("featured = ?", *q.Featured)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Preload("Sizes").
		Order("created_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).
		Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Sizes").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// おすすめ候補（同カテゴリ・公開中）
func (r *ProductGormRepository) ListByCategory(ctx context.Context, category string, excludeID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Sizes").
		Where("is_active = ? AND category = ? AND id <> ?", true, category, excludeID).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 商品の作成（サイズも一緒に作る）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"category":    p.Category,
			"price":       p.Price,
			"featured":    p.Featured,
			"is_active":   p.IsActive,
			"image_url":   p.ImageURL,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		//サイズ在庫は入れ替え
		if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductSize{}).Error; err != nil {
			return err
		}
		if len(p.Sizes) == 0 {
			return nil
		}
		sizes := make([]model.ProductSize, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			s.ID = 0
			s.ProductID = p.ID
			sizes = append(sizes, s)
		}
		return tx.Create(&sizes).Error
	})
}

// 商品削除
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
