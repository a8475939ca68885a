package repository

import (
	"context"
	"errors"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"gorm.io/gorm"
)

type commentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) repo.CommentRepository {
	return &commentGormRepository{db: db}
}

func (r *commentGormRepository) Create(ctx context.Context, c model.Comment) error {
	return r.db.WithContext(ctx).Create(&c).Error
}

func (r *commentGormRepository) FindByID(ctx context.Context, id string) (model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Comment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

func (r *commentGormRepository) ListApprovedByProduct(ctx context.Context, produitID string) ([]model.Comment, error) {
	var list []model.Comment
	err := r.db.WithContext(ctx).
		Where("produit_id = ? AND approved = ?", produitID, true).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return []model.Comment{}, err
	}
	return list, nil
}

func (r *commentGormRepository) List(ctx context.Context, f repo.CommentListFilter) ([]model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{})

	if f.ProduitID != "" {
		q = q.Where("produit_id = ?", f.ProduitID)
	}
	if f.Flagged != nil {
		q = q.Where("flagged = ?", *f.Flagged)
	}
	if f.Approved != nil {
		q = q.Where("approved = ?", *f.Approved)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Comment{}, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []model.Comment
	if err := q.Order("created_at desc").Limit(limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return []model.Comment{}, 0, err
	}
	return list, total, nil
}

func (r *commentGormRepository) Update(ctx context.Context, c model.Comment) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"nom":         c.Nom,
		"email":       c.Email,
		"rating":      c.Rating,
		"commentaire": c.Commentaire,
		"images":      c.Images,
		"approved":    c.Approved,
		"flagged":     c.Flagged,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *commentGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
