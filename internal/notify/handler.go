package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// 何もしない（SMTP未設定の環境用）
type NopMailer struct{}

func (NopMailer) Send(context.Context, Message) error { return nil }

// ジョブ1件ぶんの副作用（メール + プッシュ）を実行する
type Handler struct {
	mailer     Mailer
	push       *FanOut
	storeEmail string
}

func NewHandler(mailer Mailer, push *FanOut, storeEmail string) *Handler {
	if mailer == nil {
		mailer = NopMailer{}
	}
	return &Handler{mailer: mailer, push: push, storeEmail: storeEmail}
}

// どれかが失敗しても残りは続ける。失敗はまとめて返す。
func (h *Handler) Handle(ctx context.Context, job Job) error {
	switch job.Type {
	case JobOrderCreated:
		return h.orderCreated(ctx, job.Order)
	case JobOrderStatusChanged:
		return h.statusChanged(ctx, job.Order)
	default:
		return fmt.Errorf("notify: unknown job type %q", job.Type)
	}
}

func (h *Handler) orderCreated(ctx context.Context, o model.Order) error {
	var errs []error

	if h.storeEmail != "" {
		if err := h.mailer.Send(ctx, newOrderMessage(h.storeEmail, o)); err != nil {
			errs = append(errs, fmt.Errorf("store email: %w", err))
		}
	}
	if o.Email != "" {
		if err := h.mailer.Send(ctx, confirmationMessage(o)); err != nil {
			errs = append(errs, fmt.Errorf("customer email: %w", err))
		}
	}

	//新しい未処理注文だけ管理者へプッシュ
	if h.push != nil && o.Statut == model.OrderStatusPending {
		res, err := h.push.Send(ctx, Target{All: true}, newOrderPayload(o))
		if err != nil {
			errs = append(errs, fmt.Errorf("push: %w", err))
		} else if len(res.Failed) > 0 {
			errs = append(errs, fmt.Errorf("push: %d of %d deliveries failed", len(res.Failed), res.Sent+len(res.Failed)))
		}
	}

	return errors.Join(errs...)
}

func (h *Handler) statusChanged(ctx context.Context, o model.Order) error {
	if o.Email == "" {
		return nil
	}
	if err := h.mailer.Send(ctx, statusMessage(o)); err != nil {
		return fmt.Errorf("customer email: %w", err)
	}
	return nil
}
