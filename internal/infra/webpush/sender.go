package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const ttlSeconds = 24 * 60 * 60

// VAPIDでブラウザのプッシュサービスへ送る
type Sender struct {
	publicKey  string
	privateKey string
	subject    string
	httpClient *http.Client
}

func NewSender(cfg config.Config) (*Sender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, errors.New("webpush: VAPID keys are required")
	}
	return &Sender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.VAPIDSubject,
		httpClient: http.DefaultClient,
	}, nil
}

// タイムアウト付きクライアントやテスト用サーバーに差し替える
func (s *Sender) WithHTTPClient(c *http.Client) *Sender {
	s.httpClient = c
	return s
}

func (s *Sender) Send(ctx context.Context, sub model.PushSubscription, payload []byte) error {
	var target webpush.Subscription
	if err := json.Unmarshal([]byte(sub.Subscription), &target); err != nil {
		//壊れた購読は二度と届かないので410扱い
		return &notify.DeliveryError{Status: http.StatusGone, Err: fmt.Errorf("invalid subscription: %w", err)}
	}
	if target.Endpoint == "" {
		return &notify.DeliveryError{Status: http.StatusGone, Err: errors.New("subscription has no endpoint")}
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &target, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             ttlSeconds,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return &notify.DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &notify.DeliveryError{Status: resp.StatusCode, Err: fmt.Errorf("%s", body)}
}
