package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/handler"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/cache"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/db"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/mail"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/queue"
	infraRepo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/storage"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/webpush"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/ratelimit"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/server"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/session"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"
	auth "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// 通知ジョブ1件の上限
const jobTimeout = 30 * time.Second

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	commentRepo := infraRepo.NewCommentGormRepository(gormDB)
	subRepo := infraRepo.NewPushSubscriptionGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminUserGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	sessions, err := session.NewManager(cfg.SessionSecret)
	if err != nil {
		log.Fatal(err)
	}

	limiter := newLimiter(ctx, cfg)
	fanOut := notify.NewFanOut(subRepo, newPushSender(cfg))
	jobs, closeJobs := newEnqueuer(cfg, notify.NewHandler(newMailer(cfg), fanOut, cfg.NotifyEmail))
	defer closeJobs()

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, jobs)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, auditRepo, jobs)
	productUC := usecase.NewProductUsecase(productRepo)
	commentUC := usecase.NewCommentUsecase(commentRepo, productRepo, auditRepo)
	pushUC := usecase.NewPushUsecase(subRepo, fanOut)
	imageUC := usecase.NewImageUsecase(newImageStore(ctx, cfg))
	loginUC := auth.NewLoginUsecase(adminRepo, auth.NewBcryptPasswordVerifier(), sessions, &realClock{}, session.TTL)

	//Handler生成
	e := server.New(server.Handlers{
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC, orderUC),
		Comment:      handler.NewCommentHandler(commentUC, limiter, cfg.CookieSecure),
		AdminComment: handler.NewAdminCommentHandler(commentUC),
		Auth:         handler.NewAuthHandler(loginUC, limiter, cfg.CookieSecure),
		Push:         handler.NewPushHandler(pushUC),
		Image:        handler.NewImageHandler(imageUC),
		Audit:        handler.NewAdminAuditHandler(usecase.NewAuditUsecase(auditRepo)),
	}, server.Options{
		Debug:      !cfg.IsProduction(),
		Sessions:   sessions,
		ConsoleDir: cfg.ConsoleDir,
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal(err)
	}
	log.Info("server stopped")
}

// REDIS_ADDRがあれば複数インスタンスで共有するストア
func newLimiter(ctx context.Context, cfg config.Config) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryStore()
	}
	client, err := cache.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return ratelimit.NewRedisStore(client)
}

// AMQP_URLがあればworkerに渡す。なければプロセス内で実行
func newEnqueuer(cfg config.Config, h notify.JobHandler) (notify.Enqueuer, func()) {
	if cfg.AMQPURL == "" {
		d := notify.NewAsyncDispatcher(h, jobTimeout)
		return d, d.Wait
	}
	p, err := queue.NewPublisher(cfg.AMQPURL, cfg.NotifyQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	return p, p.Close
}

func newMailer(cfg config.Config) notify.Mailer {
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST is empty: email notifications disabled")
		return notify.NopMailer{}
	}
	m, err := mail.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}
	return m
}

func newPushSender(cfg config.Config) notify.PushSender {
	s, err := webpush.NewSender(cfg)
	if err != nil {
		log.Warnf("web push disabled: %v", err)
		return notify.DisabledSender{}
	}
	return s.WithHTTPClient(&http.Client{Timeout: 10 * time.Second})
}

// MinIO未設定ならnil（アップロードは503）
func newImageStore(ctx context.Context, cfg config.Config) usecase.ImageStore {
	if cfg.MinioEndpoint == "" {
		return nil
	}
	s, err := storage.NewMinioStore(ctx, cfg)
	if err != nil {
		log.Fatalf("minio: %v", err)
	}
	return s
}
