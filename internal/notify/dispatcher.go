package notify

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

const DefaultJobTimeout = 30 * time.Second

// プロセス内のgoroutineでジョブを実行する
// リクエストのcontextとは切り離す（レスポンス後も動き続ける）
type AsyncDispatcher struct {
	handler JobHandler
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(handler JobHandler, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &AsyncDispatcher{handler: handler, timeout: timeout}
}

func (d *AsyncDispatcher) Enqueue(job Job) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("notify: job %s for order %s panicked: %v", job.Type, job.Order.ID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.handler.Handle(ctx, job); err != nil {
			log.Errorf("notify: job %s for order %s: %v", job.Type, job.Order.ID, err)
		}
	}()
}

// 実行中のジョブを待つ（シャットダウン時）
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
