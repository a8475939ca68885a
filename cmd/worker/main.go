package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/db"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/mail"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/queue"
	infraRepo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/webpush"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	jobTimeout = 30 * time.Second
	prefetch   = 10
)

// APIがAMQP_URLで積んだ通知ジョブを処理する。失敗したジョブは捨てる（再試行しない）
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var sender notify.PushSender = notify.DisabledSender{}
	if s, err := webpush.NewSender(cfg); err == nil {
		sender = s
	} else {
		log.Warnf("web push disabled: %v", err)
	}

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.SMTPHost != "" {
		m, err := mail.NewSMTPMailer(cfg)
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		mailer = m
	}

	fanOut := notify.NewFanOut(infraRepo.NewPushSubscriptionGormRepository(gormDB), sender)
	h := notify.NewHandler(mailer, fanOut, cfg.NotifyEmail)

	consumer, err := queue.NewConsumer(cfg.AMQPURL, cfg.NotifyQueue, prefetch)
	if err != nil {
		log.Fatal(err)
	}
	defer consumer.Close()

	if err := consumer.Run(ctx, h, jobTimeout); err != nil {
		log.Errorf("worker: %v", err)
		return
	}
	log.Info("worker stopped")
}
