package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// 通知ジョブをキューへ積む（APIプロセス側）
type Publisher struct {
	conn    *amqp.Connection
	mu      sync.Mutex
	channel *amqp.Channel
	queue   string
	wg      sync.WaitGroup
}

func NewPublisher(url, queueName string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(channel, queueName); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, channel: channel, queue: queueName}, nil
}

// 失敗してもログだけ残す。注文リクエストには影響させない。
func (p *Publisher) Enqueue(job notify.Job) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, job); err != nil {
			log.Errorf("queue: publish %s for order %s: %v", job.Type, job.Order.ID, err)
		}
	}()
}

func (p *Publisher) Publish(ctx context.Context, job notify.Job) error {
	body, err := notify.EncodeJob(job)
	if err != nil {
		return err
	}

	//チャネルはgoroutine間で共有しない
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         string(job.Type),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	p.wg.Wait()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// 通知ジョブを受け取って実行する（workerプロセス側）
type Consumer struct {
	conn          *amqp.Connection
	channel       *amqp.Channel
	queue         string
	prefetchCount int
}

func NewConsumer(url, queueName string, prefetchCount int) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{conn: conn, channel: channel, queue: queueName, prefetchCount: prefetchCount}, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// ctxがキャンセルされるかチャネルが閉じるまで処理を続ける
func (c *Consumer) Run(ctx context.Context, handler notify.JobHandler, jobTimeout time.Duration) error {
	if err := declare(c.channel, c.queue); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Infof("queue: consuming from %s", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("queue: delivery channel closed")
			}
			c.process(ctx, msg, handler, jobTimeout)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg amqp.Delivery, handler notify.JobHandler, jobTimeout time.Duration) {
	if err := HandleDelivery(ctx, msg.Body, handler, jobTimeout); err != nil {
		log.Errorf("queue: %v", err)
		//再試行しない（通知は最大1回）
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}

// 1件ぶんのメッセージを処理する
func HandleDelivery(ctx context.Context, body []byte, handler notify.JobHandler, jobTimeout time.Duration) error {
	job, err := notify.DecodeJob(body)
	if err != nil {
		return err
	}

	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := handler.Handle(jobCtx, job); err != nil {
		return fmt.Errorf("job %s for order %s: %w", job.Type, job.Order.ID, err)
	}
	return nil
}

func declare(ch *amqp.Channel, queueName string) error {
	_, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}
