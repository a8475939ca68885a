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

type PushUsecase struct {
	subs   repo.PushSubscriptionRepository
	fanOut *notify.FanOut
}

func NewPushUsecase(subs repo.PushSubscriptionRepository, fanOut *notify.FanOut) *PushUsecase {
	return &PushUsecase{subs: subs, fanOut: fanOut}
}

// ブラウザの PushSubscription.toJSON() の形
type BrowserSubscription struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

type SubscribeInput struct {
	UserID       string              `json:"userId" validate:"notblank,max=255"`
	Platform     string              `json:"platform" validate:"notblank,max=50"`
	Subscription BrowserSubscription `json:"subscription"`
}

// (userId, platform) ごとに1件。既存なら置き換える。
func (u *PushUsecase) Subscribe(ctx context.Context, in SubscribeInput) error {
	if err := validateInput(in, nil); err != nil {
		return err
	}

	raw, err := json.Marshal(in.Subscription)
	if err != nil {
		return WrapHTTPError(http.StatusInternalServerError, "encode error", err)
	}

	err = u.subs.Upsert(ctx, model.PushSubscription{
		ID:           uuid.NewString(),
		UserID:       strings.TrimSpace(in.UserID),
		Platform:     strings.TrimSpace(in.Platform),
		Subscription: string(raw),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return dbError(err)
	}
	return nil
}

type UnsubscribeInput struct {
	UserID   string `json:"userId" validate:"notblank"`
	Platform string `json:"platform" validate:"notblank"`
}

func (u *PushUsecase) Unsubscribe(ctx context.Context, in UnsubscribeInput) error {
	if err := validateInput(in, nil); err != nil {
		return err
	}

	err := u.subs.DeleteByUserPlatform(ctx, strings.TrimSpace(in.UserID), strings.TrimSpace(in.Platform))
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

type SendPushInput struct {
	Title   string         `json:"title" validate:"notblank,max=200"`
	Body    string         `json:"body" validate:"max=1000"`
	URL     string         `json:"url,omitempty" validate:"max=2048"`
	Tag     string         `json:"tag,omitempty" validate:"max=100"`
	Icon    string         `json:"icon,omitempty" validate:"max=2048"`
	Badge   string         `json:"badge,omitempty" validate:"max=2048"`
	Data    map[string]any `json:"data,omitempty"`
	UserIDs []string       `json:"userIds,omitempty" validate:"omitempty,max=500,dive,notblank"`
	Target  string         `json:"target,omitempty" validate:"omitempty,oneof=all"`
}

// userIds か target:"all" のどちらかを指定する
func (u *PushUsecase) Send(ctx context.Context, in SendPushInput) (notify.Result, error) {
	extra := map[string]string{}
	if len(in.UserIDs) == 0 && in.Target == "" {
		extra["target"] = "required"
	}
	if err := validateInput(in, extra); err != nil {
		return notify.Result{}, err
	}

	target := notify.Target{All: in.Target == "all", UserIDs: in.UserIDs}
	res, err := u.fanOut.Send(ctx, target, notify.Payload{
		Title: strings.TrimSpace(in.Title),
		Body:  in.Body,
		URL:   in.URL,
		Tag:   in.Tag,
		Icon:  strings.TrimSpace(in.Icon),
		Badge: strings.TrimSpace(in.Badge),
		Data:  in.Data,
	})
	if err != nil {
		return notify.Result{}, dbError(err)
	}
	return res, nil
}
