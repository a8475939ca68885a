package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/db"
	infraRepo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/infra/repository"
	auth "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 管理者アカウントを作る。パスワードはADMIN_PASSWORDから読む（シェル履歴に残さない）
func main() {
	email := flag.String("email", "", "admin email")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if *email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: ADMIN_PASSWORD=... createadmin -email admin@example.com")
		os.Exit(2)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	uc := auth.NewRegisterAdminUsecase(
		infraRepo.NewAdminUserGormRepository(gormDB),
		auth.NewBcryptPasswordHasher(auth.AdminBcryptCost),
		&uuidGenerator{},
		&realClock{},
	)

	admin, err := uc.Execute(context.Background(), auth.RegisterAdminInput{Email: *email, Password: password})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Infof("admin %s created (%s)", admin.Email, admin.ID)
}
