// Package notify は注文まわりの通知（メール・プッシュ）を扱う。
//
// 注文APIはジョブを積むだけで、配信の成否を待たない。
// 配信はベストエフォートで、失敗したジョブは再試行しない。
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

type JobType string

const (
	JobOrderCreated       JobType = "order.created"
	JobOrderStatusChanged JobType = "order.status_changed"
)

type Job struct {
	Type           JobType           `json:"type"`
	Order          model.Order       `json:"order"`
	PreviousStatus model.OrderStatus `json:"previous_status,omitempty"`
}

// 積むだけ。エラーは返さない（呼び出し元のリクエストを失敗させない）
type Enqueuer interface {
	Enqueue(job Job)
}

type JobHandler interface {
	Handle(ctx context.Context, job Job) error
}

func EncodeJob(job Job) ([]byte, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("notify: encode job: %w", err)
	}
	return b, nil
}

func DecodeJob(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return Job{}, fmt.Errorf("notify: decode job: %w", err)
	}
	switch job.Type {
	case JobOrderCreated, JobOrderStatusChanged:
	default:
		return Job{}, fmt.Errorf("notify: unknown job type %q", job.Type)
	}
	return job, nil
}
