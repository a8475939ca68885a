package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	jobs   notify.Enqueuer
	now    func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, jobs notify.Enqueuer) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, jobs: jobs, now: time.Now}
}

// 注文明細の入力
// 価格は画面から送られた値をそのまま使う（商品マスタとの照合はしない）
type OrderItemInput struct {
	ProduitID string          `json:"id" validate:"required,uuid"`
	Nom       string          `json:"nom" validate:"notblank,max=255"`
	Prix      decimal.Decimal `json:"prix"`
	Quantite  int64           `json:"quantite" validate:"gt=0,lte=100"`
	ImageURL  string          `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	Taille    string          `json:"taille,omitempty" validate:"max=20"`
	Couleur   string          `json:"couleur,omitempty" validate:"max=50"`
}

type CreateOrderInput struct {
	NomClient string           `json:"nom_client" validate:"notblank,max=255"`
	Telephone string           `json:"telephone" validate:"notblank,max=30"`
	Email     string           `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Adresse   string           `json:"adresse" validate:"notblank"`
	Ville     string           `json:"ville" validate:"notblank,max=255"`
	Produits  []OrderItemInput `json:"produits" validate:"min=1,max=50,dive"`
}

type CreateOrderOutput struct {
	ID     string            `json:"id"`
	Statut model.OrderStatus `json:"statut"`
	Total  decimal.Decimal   `json:"total"`
}

// 注文を作成して通知ジョブを積む。
// 通知は待たない。失敗しても注文は成功のまま。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	//価格は decimal なのでタグではなくここで確認
	//列は numeric(12,2) なので小数3桁以上は受け付けない
	extra := map[string]string{}
	for i, it := range in.Produits {
		field := fmt.Sprintf("produits[%d].prix", i)
		switch {
		case it.Prix.Sign() <= 0:
			extra[field] = "gt"
		case !it.Prix.Equal(it.Prix.Round(2)):
			extra[field] = "decimals"
		}
	}
	if err := validateInput(in, extra); err != nil {
		return CreateOrderOutput{}, err
	}

	now := u.now()
	order := model.Order{
		ID:        uuid.NewString(),
		NomClient: strings.TrimSpace(in.NomClient),
		Telephone: strings.TrimSpace(in.Telephone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Adresse:   strings.TrimSpace(in.Adresse),
		Ville:     strings.TrimSpace(in.Ville),
		Statut:    model.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	//合計 = Σ 価格 × 数量（サーバー側で計算）
	items := make([]model.OrderItem, 0, len(in.Produits))
	total := decimal.Zero
	for _, it := range in.Produits {
		item := model.OrderItem{
			OrderID:   order.ID,
			ProduitID: strings.TrimSpace(it.ProduitID),
			Nom:       strings.TrimSpace(it.Nom),
			Prix:      it.Prix,
			Quantite:  it.Quantite,
			ImageURL:  it.ImageURL,
			Taille:    strings.TrimSpace(it.Taille),
			Couleur:   strings.TrimSpace(it.Couleur),
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	order.Total = total

	//注文と明細は同じトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return dbError(err)
		}
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return CreateOrderOutput{}, err
	}

	order.Items = items
	u.jobs.Enqueue(notify.Job{Type: notify.JobOrderCreated, Order: order})

	return CreateOrderOutput{ID: order.ID, Statut: order.Statut, Total: order.Total}, nil
}

// 注文確認ページ向け。連絡先と住所は返さない
type PublicOrder struct {
	ID        string            `json:"id"`
	Statut    model.OrderStatus `json:"statut"`
	Total     decimal.Decimal   `json:"total"`
	Ville     string            `json:"ville"`
	Items     []model.OrderItem `json:"produits"`
	CreatedAt time.Time         `json:"created_at"`
}

func (u *OrderUsecase) GetPublicOrder(ctx context.Context, orderID string) (PublicOrder, error) {
	o, err := u.GetOrder(ctx, orderID)
	if err != nil {
		return PublicOrder{}, err
	}
	items := o.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	return PublicOrder{
		ID:        o.ID,
		Statut:    o.Statut,
		Total:     o.Total,
		Ville:     o.Ville,
		Items:     items,
		CreatedAt: o.CreatedAt,
	}, nil
}

// 管理画面用（全項目）
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}
	return o, nil
}
