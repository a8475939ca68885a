// Package ratelimit は固定ウィンドウ方式のレート制限。
//
// 同じ Limiter インターフェースでプロセス内メモリ版とRedis版を切り替える。
// メモリ版はインスタンスごとの上限で、再起動でリセットされる。
package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"
)

// 判定結果
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int
}

type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// 用途ごとの上限
type Policy struct {
	Action string
	Limit  int
	Window time.Duration
}

var (
	LoginPolicy   = Policy{Action: "login", Limit: 5, Window: 15 * time.Minute}
	CommentPolicy = Policy{Action: "comment", Limit: 5, Window: time.Hour}
)

func (p Policy) Key(clientID string) string {
	return p.Action + ":" + clientID
}

// プロキシのヘッダーからクライアントを識別する。
// 判別できないクライアントは全員 "unknown" を共有する。
func ClientID(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if first := strings.TrimSpace(parts[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	return "unknown"
}

// 残り時間を切り上げた秒数（最低1）
func retryAfterSeconds(remaining time.Duration) int {
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
