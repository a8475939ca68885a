package usecase

import (
	"context"
	"sync"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, category string, excludeID string) ([]model.Product, error) {
	args := m.Called(ctx, category, excludeID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CommentRepoMock struct{ mock.Mock }

func (m *CommentRepoMock) Create(ctx context.Context, c model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CommentRepoMock) FindByID(ctx context.Context, id string) (model.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Comment)
	return c, args.Error(1)
}

func (m *CommentRepoMock) ListApprovedByProduct(ctx context.Context, produitID string) ([]model.Comment, error) {
	args := m.Called(ctx, produitID)
	list, _ := args.Get(0).([]model.Comment)
	return list, args.Error(1)
}

func (m *CommentRepoMock) List(ctx context.Context, f repo.CommentListFilter) ([]model.Comment, int64, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.Comment)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *CommentRepoMock) Update(ctx context.Context, c model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CommentRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type SubRepoMock struct{ mock.Mock }

func (m *SubRepoMock) Upsert(ctx context.Context, sub model.PushSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubRepoMock) DeleteByUserPlatform(ctx context.Context, userID string, platform string) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}

func (m *SubRepoMock) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SubRepoMock) ListAll(ctx context.Context) ([]model.PushSubscription, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]model.PushSubscription)
	return subs, args.Error(1)
}

func (m *SubRepoMock) ListByUserIDs(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	args := m.Called(ctx, userIDs)
	subs, _ := args.Get(0).([]model.PushSubscription)
	return subs, args.Error(1)
}

// 積まれたジョブを記録するだけ
type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []notify.Job
}

func (e *recordingEnqueuer) Enqueue(job notify.Job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
}
