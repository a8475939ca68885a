package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/google/uuid"
)

type AdminOrderUsecase struct {
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
	jobs      notify.Enqueuer
}

func NewAdminOrderUsecase(orders repo.OrderRepository, auditRepo repo.AuditLogRepository, jobs notify.Enqueuer) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, auditRepo: auditRepo, jobs: jobs}
}

type AdminUpdateOrderStatusInput struct {
	NouveauStatut string `json:"nouveau_statut"`
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文一覧（新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) (OrderListOutput, error) {
	if f.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Statut != "" && !model.OrderStatus(f.Statut).Valid() {
		return OrderListOutput{}, NewValidationError(map[string]string{"statut": "oneof"})
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, dbError(err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return OrderListOutput{Items: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ステータス更新
// 4つの値のどれかであれば、現在の状態に関係なく書き換える
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorEmail string, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	if actorEmail == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.NouveauStatut))
	if !newStatus.Valid() {
		return model.Order{}, NewValidationError(map[string]string{"nouveau_statut": "oneof"})
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}

	prev := o.Statut
	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Order{}, dbError(err)
	}
	o.Statut = newStatus
	o.UpdatedAt = time.Now()

	//監査ログ
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   statusJSON(prev),
		AfterJSON:    statusJSON(newStatus),
		CreatedAt:    time.Now(),
	}); err != nil {
		return model.Order{}, dbError(err)
	}

	if prev != newStatus {
		u.jobs.Enqueue(notify.Job{Type: notify.JobOrderStatusChanged, Order: o, PreviousStatus: prev})
	}
	return o, nil
}

// 管理者による明示的な削除
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorEmail string, orderID string) error {
	if actorEmail == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}

	if err := u.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return dbError(err)
	}

	before, _ := json.Marshal(o)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorEmail:   actorEmail,
		Action:       model.AuditActionDeleteOrder,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(before),
		AfterJSON:    "{}",
		CreatedAt:    time.Now(),
	}); err != nil {
		return dbError(err)
	}
	return nil
}

func statusJSON(s model.OrderStatus) string {
	b, _ := json.Marshal(map[string]string{"statut": string(s)})
	return string(b)
}
