package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/recommend"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// GET /api/productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Category string
	Featured *bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Category) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "category too long")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: strings.TrimSpace(in.Category),
		Featured: in.Featured,
	})
	if err != nil {
		return ProductListOutput{}, dbError(err)
	}
	if items == nil {
		items = []model.Product{}
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	p, err := u.findActive(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (u *ProductUsecase) findActive(ctx context.Context, productID string) (model.Product, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// 似た商品の1件。在庫切れも返し、画面側で「在庫なし」を重ねる。
type SimilarProduct struct {
	model.Product
	Available bool `json:"available"`
}

type SimilarOutput struct {
	Items []SimilarProduct `json:"items"`
}

// 同じカテゴリの公開商品をスコア順に並べる
func (u *ProductUsecase) Similar(ctx context.Context, productID string, limit int) (SimilarOutput, error) {
	src, err := u.findActive(ctx, productID)
	if err != nil {
		return SimilarOutput{}, err
	}

	candidates, err := u.productRepo.ListByCategory(ctx, src.Category, src.ID)
	if err != nil {
		return SimilarOutput{}, dbError(err)
	}

	ranked := recommend.Rank(src, candidates, limit)
	out := SimilarOutput{Items: make([]SimilarProduct, 0, len(ranked))}
	for _, p := range ranked {
		out.Items = append(out.Items, SimilarProduct{Product: p, Available: p.TotalStock() > 0})
	}
	return out, nil
}

type ProductSizeInput struct {
	Taille  string `json:"taille" validate:"notblank,max=20"`
	Couleur string `json:"couleur,omitempty" validate:"max=50"`
	Stock   int64  `json:"stock" validate:"gte=0"`
}

type AdminProductInput struct {
	Nom         string             `json:"nom" validate:"notblank,max=255"`
	Description string             `json:"description"`
	Categorie   string             `json:"categorie" validate:"notblank,max=100"`
	Prix        decimal.Decimal    `json:"prix"`
	Vedette     bool               `json:"vedette"`
	IsActive    bool               `json:"is_active"`
	ImageURL    string             `json:"image_url,omitempty" validate:"omitempty,url"`
	Tailles     []ProductSizeInput `json:"tailles" validate:"dive"`
}

func (in AdminProductInput) validate() error {
	extra := map[string]string{}
	if in.Prix.IsNegative() {
		extra["prix"] = "gte"
	}
	return validateInput(in, extra)
}

func (in AdminProductInput) sizes(productID string) []model.ProductSize {
	sizes := make([]model.ProductSize, 0, len(in.Tailles))
	for _, s := range in.Tailles {
		sizes = append(sizes, model.ProductSize{
			ProductID: productID,
			Size:      strings.TrimSpace(s.Taille),
			Color:     strings.TrimSpace(s.Couleur),
			Stock:     s.Stock,
		})
	}
	return sizes
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actorEmail string, in AdminProductInput) (model.Product, error) {
	if actorEmail == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	now := time.Now()
	id := uuid.NewString()
	p, err := u.productRepo.Create(ctx, model.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Nom),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Categorie),
		Price:       in.Prix,
		Featured:    in.Vedette,
		IsActive:    in.IsActive,
		ImageURL:    in.ImageURL,
		Sizes:       in.sizes(id),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actorEmail string, productID string, in AdminProductInput) error {
	if actorEmail == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(productID); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Nom),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Categorie),
		Price:       in.Prix,
		Featured:    in.Vedette,
		IsActive:    in.IsActive,
		ImageURL:    in.ImageURL,
		Sizes:       in.sizes(productID),
		UpdatedAt:   time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actorEmail string, productID string) error {
	if actorEmail == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(productID); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}
