package server_test

import (
	"context"
	"sort"
	"sync"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	repo "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
)

// Postgresの代わりのメモリ実装。テストで1つのstoreを共有する
type memStore struct {
	mu       sync.Mutex
	orders   map[string]model.Order
	products map[string]model.Product
	comments map[string]model.Comment
	subs     map[string]model.PushSubscription
	admins   map[string]model.AdminUser
	audits   []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[string]model.Order{},
		products: map[string]model.Product{},
		comments: map[string]model.Comment{},
		subs:     map[string]model.PushSubscription{},
		admins:   map[string]model.AdminUser{},
	}
}

// ---- orders ----

type memOrders struct{ s *memStore }

func (r memOrders) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) Create(ctx context.Context, order model.Order) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Statut = status
	r.s.orders[orderID] = o
	return nil
}

func (r memOrders) Delete(ctx context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, orderID)
	return nil
}

func (r memOrders) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if f.Statut == "" || string(o.Statut) == f.Statut {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Items = append(o.Items, items...)
	r.s.orders[orderID] = o
	return nil
}

type memTx struct{ s *memStore }

func (t memTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t)
}

func (t memTx) Orders() repo.OrderRepository         { return memOrders(t) }
func (t memTx) OrderItems() repo.OrderItemRepository { return memOrderItems(t) }

// ---- products ----

type memProducts struct{ s *memStore }

func (r memProducts) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.IsActive && (q.Category == "" || p.Category == q.Category) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r memProducts) FindByID(ctx context.Context, id string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) ListByCategory(ctx context.Context, category string, excludeID string) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.IsActive && p.Category == category && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProducts) Update(ctx context.Context, p model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}

func (r memProducts) SoftDelete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ---- comments ----

type memComments struct{ s *memStore }

func (r memComments) Create(ctx context.Context, c model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.comments[c.ID] = c
	return nil
}

func (r memComments) FindByID(ctx context.Context, id string) (model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return model.Comment{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memComments) ListApprovedByProduct(ctx context.Context, produitID string) ([]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.ProduitID == produitID && c.Approved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memComments) List(ctx context.Context, f repo.CommentListFilter) ([]model.Comment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Comment
	for _, c := range r.s.comments {
		if f.Flagged != nil && c.Flagged != *f.Flagged {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r memComments) Update(ctx context.Context, c model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.comments[c.ID] = c
	return nil
}

func (r memComments) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

// ---- push subscriptions ----

type memSubs struct{ s *memStore }

func (r memSubs) Upsert(ctx context.Context, sub model.PushSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.subs {
		if existing.UserID == sub.UserID && existing.Platform == sub.Platform {
			delete(r.s.subs, id)
		}
	}
	r.s.subs[sub.ID] = sub
	return nil
}

func (r memSubs) DeleteByUserPlatform(ctx context.Context, userID string, platform string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.subs {
		if existing.UserID == userID && existing.Platform == platform {
			delete(r.s.subs, id)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r memSubs) DeleteByID(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subs[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.subs, id)
	return nil
}

func (r memSubs) ListAll(ctx context.Context) ([]model.PushSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.PushSubscription, 0, len(r.s.subs))
	for _, sub := range r.s.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (r memSubs) ListByUserIDs(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[string]bool{}
	for _, id := range userIDs {
		want[id] = true
	}
	var out []model.PushSubscription
	for _, sub := range r.s.subs {
		if want[sub.UserID] {
			out = append(out, sub)
		}
	}
	return out, nil
}

// ---- admins / audit ----

type memAdmins struct{ s *memStore }

func (r memAdmins) Create(ctx context.Context, user *model.AdminUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.admins[user.Email] = *user
	return nil
}

func (r memAdmins) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.admins[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r memAdmins) Update(ctx context.Context, user *model.AdminUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.admins[user.Email] = *user
	return nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Create(ctx context.Context, log model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, log)
	return nil
}

func (r memAudit) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.AuditLog(nil), r.s.audits...), nil
}
