package usecase

import (
	"context"
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
)

// 管理者操作の履歴を見る
type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

type AuditLogListOutput struct {
	Items  []model.AuditLog `json:"items"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) (AuditLogListOutput, error) {
	if f.Limit < 1 || f.Limit > 200 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	fields := map[string]string{}
	if f.Action != nil && !f.Action.Valid() {
		fields["action"] = "oneof"
	}
	if f.ResourceType != nil && !f.ResourceType.Valid() {
		fields["resource_type"] = "oneof"
	}
	if len(fields) > 0 {
		return AuditLogListOutput{}, NewValidationError(fields)
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return AuditLogListOutput{}, dbError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogListOutput{Items: logs, Limit: f.Limit, Offset: f.Offset}, nil
}
