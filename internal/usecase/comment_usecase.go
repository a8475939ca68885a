package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/spam"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const ownerTokenBytes = 32

type CommentUsecase struct {
	comments  repo.CommentRepository
	products  repo.ProductRepository
	auditRepo repo.AuditLogRepository
	now       func() time.Time
}

func NewCommentUsecase(comments repo.CommentRepository, products repo.ProductRepository, auditRepo repo.AuditLogRepository) *CommentUsecase {
	return &CommentUsecase{comments: comments, products: products, auditRepo: auditRepo, now: time.Now}
}

type CreateCommentInput struct {
	ProduitID   string   `json:"produit_id" validate:"required,uuid"`
	Nom         string   `json:"nom" validate:"notblank,max=100"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Rating      int      `json:"rating" validate:"min=1,max=5"`
	Commentaire string   `json:"commentaire" validate:"notblank,max=5000"`
	Images      []string `json:"images,omitempty" validate:"max=6,dive,url"`
}

// tokenは作成時に一度だけ返す。以後の編集・削除に必要。
type CreateCommentOutput struct {
	Comment model.Comment `json:"comment"`
	Token   string        `json:"token"`
}

func (u *CommentUsecase) Create(ctx context.Context, in CreateCommentInput) (CreateCommentOutput, error) {
	if err := validateInput(in, nil); err != nil {
		return CreateCommentOutput{}, err
	}

	//商品の存在確認
	if _, err := u.products.FindByID(ctx, in.ProduitID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CreateCommentOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return CreateCommentOutput{}, dbError(err)
	}

	token, err := newOwnerToken()
	if err != nil {
		return CreateCommentOutput{}, WrapHTTPError(http.StatusInternalServerError, "token error", err)
	}

	body := strings.TrimSpace(in.Commentaire)
	now := u.now()
	c := model.Comment{
		ID:          uuid.NewString(),
		ProduitID:   in.ProduitID,
		Nom:         strings.TrimSpace(in.Nom),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Rating:      in.Rating,
		Commentaire: body,
		Images:      pq.StringArray(normalizeImages(in.Images)),
		TokenHash:   hashOwnerToken(token),
		//スパム疑いでも公開はする（管理者の確認待ちフラグだけ立てる）
		Approved:  true,
		Flagged:   spam.IsSuspicious(body) || spam.IsSuspicious(in.Nom),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.comments.Create(ctx, c); err != nil {
		return CreateCommentOutput{}, dbError(err)
	}
	return CreateCommentOutput{Comment: c, Token: token}, nil
}

type ProductCommentsOutput struct {
	Items         []model.Comment `json:"items"`
	Count         int             `json:"count"`
	AverageRating float64         `json:"average_rating"`
}

// 承認済みコメントと平均評価
func (u *CommentUsecase) ListForProduct(ctx context.Context, produitID string) (ProductCommentsOutput, error) {
	if _, err := uuid.Parse(produitID); err != nil {
		return ProductCommentsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	list, err := u.comments.ListApprovedByProduct(ctx, produitID)
	if err != nil {
		return ProductCommentsOutput{}, dbError(err)
	}
	if list == nil {
		list = []model.Comment{}
	}

	out := ProductCommentsOutput{Items: list, Count: len(list)}
	if len(list) > 0 {
		sum := 0
		for _, c := range list {
			sum += c.Rating
		}
		avg := float64(sum) / float64(len(list))
		out.AverageRating = float64(int(avg*10+0.5)) / 10
	}
	return out, nil
}

// 投稿者による編集（nilのフィールドは変更しない）
type OwnerUpdateCommentInput struct {
	Nom         *string  `json:"nom,omitempty" validate:"omitempty,notblank,max=100"`
	Rating      *int     `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Commentaire *string  `json:"commentaire,omitempty" validate:"omitempty,notblank,max=5000"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=6,dive,url"`
}

func (u *CommentUsecase) UpdateByOwner(ctx context.Context, commentID string, token string, in OwnerUpdateCommentInput) (model.Comment, error) {
	c, err := u.authorizeOwner(ctx, commentID, token)
	if err != nil {
		return model.Comment{}, err
	}
	if err := validateInput(in, nil); err != nil {
		return model.Comment{}, err
	}

	if in.Nom != nil {
		c.Nom = strings.TrimSpace(*in.Nom)
	}
	if in.Rating != nil {
		c.Rating = *in.Rating
	}
	if in.Commentaire != nil {
		c.Commentaire = strings.TrimSpace(*in.Commentaire)
	}
	if in.Images != nil {
		c.Images = pq.StringArray(normalizeImages(in.Images))
	}
	//編集後の本文で判定し直す（一度立ったフラグは投稿者では消せない）
	if spam.IsSuspicious(c.Commentaire) || spam.IsSuspicious(c.Nom) {
		c.Flagged = true
	}
	c.UpdatedAt = u.now()

	if err := u.comments.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Comment{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Comment{}, dbError(err)
	}
	return c, nil
}

func (u *CommentUsecase) DeleteByOwner(ctx context.Context, commentID string, token string) error {
	if _, err := u.authorizeOwner(ctx, commentID, token); err != nil {
		return err
	}
	if err := u.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return dbError(err)
	}
	return nil
}

// トークンを持っていること自体が権限
func (u *CommentUsecase) authorizeOwner(ctx context.Context, commentID string, token string) (model.Comment, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(token) == "" {
		return model.Comment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Comment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Comment{}, dbError(err)
	}

	got := hashOwnerToken(token)
	if subtle.ConstantTimeCompare([]byte(got), []byte(c.TokenHash)) != 1 {
		return model.Comment{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return c, nil
}

type AdminCommentListOutput struct {
	Items []model.Comment `json:"items"`
	Total int64           `json:"total"`
}

func (u *CommentUsecase) AdminList(ctx context.Context, f repo.CommentListFilter) (AdminCommentListOutput, error) {
	if f.ProduitID != "" {
		if _, err := uuid.Parse(f.ProduitID); err != nil {
			return AdminCommentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
	}
	if f.Limit < 0 || f.Limit > 200 || f.Offset < 0 {
		return AdminCommentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}

	list, total, err := u.comments.List(ctx, f)
	if err != nil {
		return AdminCommentListOutput{}, dbError(err)
	}
	if list == nil {
		list = []model.Comment{}
	}
	return AdminCommentListOutput{Items: list, Total: total}, nil
}

// 管理者はどのフィールドも上書きできる
type AdminUpdateCommentInput struct {
	Approved    *bool   `json:"approved,omitempty"`
	Flagged     *bool   `json:"flagged,omitempty"`
	Nom         *string `json:"nom,omitempty" validate:"omitempty,notblank,max=100"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Commentaire *string `json:"commentaire,omitempty" validate:"omitempty,notblank,max=5000"`
}

func (u *CommentUsecase) AdminUpdate(ctx context.Context, actorEmail string, commentID string, in AdminUpdateCommentInput) (model.Comment, error) {
	if actorEmail == "" {
		return model.Comment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(commentID); err != nil {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateInput(in, nil); err != nil {
		return model.Comment{}, err
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Comment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Comment{}, dbError(err)
	}
	before := moderationJSON(c)

	if in.Approved != nil {
		c.Approved = *in.Approved
	}
	if in.Flagged != nil {
		c.Flagged = *in.Flagged
	}
	if in.Nom != nil {
		c.Nom = strings.TrimSpace(*in.Nom)
	}
	if in.Rating != nil {
		c.Rating = *in.Rating
	}
	if in.Commentaire != nil {
		c.Commentaire = strings.TrimSpace(*in.Commentaire)
	}
	c.UpdatedAt = u.now()

	if err := u.comments.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Comment{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Comment{}, dbError(err)
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       model.AuditActionModerateComment,
		ResourceType: model.AuditResourceComment,
		ResourceID:   commentID,
		BeforeJSON:   before,
		AfterJSON:    moderationJSON(c),
		CreatedAt:    time.Now(),
	}); err != nil {
		return model.Comment{}, dbError(err)
	}
	return c, nil
}

func (u *CommentUsecase) AdminDelete(ctx context.Context, actorEmail string, commentID string) error {
	if actorEmail == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(commentID); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}

	if err := u.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return dbError(err)
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       model.AuditActionDeleteComment,
		ResourceType: model.AuditResourceComment,
		ResourceID:   commentID,
		BeforeJSON:   moderationJSON(c),
		AfterJSON:    "{}",
		CreatedAt:    time.Now(),
	}); err != nil {
		return dbError(err)
	}
	return nil
}

func newOwnerToken() (string, error) {
	b := make([]byte, ownerTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate owner token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DBにはハッシュだけ保存する
func hashOwnerToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func moderationJSON(c model.Comment) string {
	b, _ := json.Marshal(map[string]any{
		"nom":         c.Nom,
		"rating":      c.Rating,
		"commentaire": c.Commentaire,
		"approved":    c.Approved,
		"flagged":     c.Flagged,
	})
	return string(b)
}
