package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/labstack/gommon/log"
)

// プッシュ通知の中身（Service Workerが受け取るJSON）
type Payload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	URL   string         `json:"url,omitempty"`
	Tag   string         `json:"tag,omitempty"`
	Icon  string         `json:"icon,omitempty"`
	Badge string         `json:"badge,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// 配信失敗。Statusはプッシュサービスの応答（通信エラーなら0）
type DeliveryError struct {
	Status int
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Status == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("push service responded %d: %v", e.Status, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// 端点がもう存在しない
func (e *DeliveryError) Gone() bool {
	return e.Status == http.StatusNotFound || e.Status == http.StatusGone
}

type PushSender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload []byte) error
}

// VAPID鍵がないとき。購読は消さずに失敗だけ返す
type DisabledSender struct{}

var errPushDisabled = errors.New("web push is not configured")

func (DisabledSender) Send(context.Context, model.PushSubscription, []byte) error {
	return &DeliveryError{Err: errPushDisabled}
}

// 送信先。All=true なら登録済み全件
type Target struct {
	All     bool
	UserIDs []string
}

type Failure struct {
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
	Status         int    `json:"status,omitempty"`
	Error          string `json:"error"`
	Removed        bool   `json:"removed"`
}

type Result struct {
	Sent   int       `json:"sent"`
	Failed []Failure `json:"failed"`
}

var ErrEmptyTarget = errors.New("notify: empty push target")

type FanOut struct {
	subs   repo.PushSubscriptionRepository
	sender PushSender
}

func NewFanOut(subs repo.PushSubscriptionRepository, sender PushSender) *FanOut {
	return &FanOut{subs: subs, sender: sender}
}

// 全購読に並列で送る。1件の失敗で他を止めない。
// 404/410 が返った購読はその場で削除する。
func (f *FanOut) Send(ctx context.Context, target Target, payload Payload) (Result, error) {
	var (
		subs []model.PushSubscription
		err  error
	)
	switch {
	case target.All:
		subs, err = f.subs.ListAll(ctx)
	case len(target.UserIDs) > 0:
		subs, err = f.subs.ListByUserIDs(ctx, target.UserIDs)
	default:
		return Result{}, ErrEmptyTarget
	}
	if err != nil {
		return Result{}, fmt.Errorf("notify: list subscriptions: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("notify: encode payload: %w", err)
	}

	res := Result{Failed: []Failure{}}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.PushSubscription) {
			defer wg.Done()

			sendErr := f.sender.Send(ctx, sub, body)
			if sendErr == nil {
				mu.Lock()
				res.Sent++
				mu.Unlock()
				return
			}

			fail := Failure{SubscriptionID: sub.ID, UserID: sub.UserID, Error: sendErr.Error()}
			var de *DeliveryError
			if errors.As(sendErr, &de) {
				fail.Status = de.Status
				if de.Gone() {
					if err := f.subs.DeleteByID(ctx, sub.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
						log.Errorf("notify: delete stale subscription %s: %v", sub.ID, err)
					} else {
						fail.Removed = true
					}
				}
			}

			mu.Lock()
			res.Failed = append(res.Failed, fail)
			mu.Unlock()
		}(sub)
	}
	wg.Wait()

	return res, nil
}
