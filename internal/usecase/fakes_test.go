package usecase

import (
	"context"
	"fmt"
	"io"

	"petcover_service/internal/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memProductRepo is an in-memory ProductRepository honoring the same error
// taxonomy as the Mongo implementation.
type memProductRepo struct {
	products map[string]*domain.Product
	order    []string
	failWith error
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*domain.Product)}
}

func (r *memProductRepo) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	product.ID = primitive.NewObjectID()
	copied := *product
	r.products[product.ID.Hex()] = &copied
	r.order = append(r.order, product.ID.Hex())
	return product, nil
}

func (r *memProductRepo) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	copied := *p
	copied.Templates = append(domain.TemplateList(nil), p.Templates...)
	return &copied, nil
}

func (r *memProductRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.products[id])
	}
	return out, nil
}

func (r *memProductRepo) AddTemplate(_ context.Context, id, ref string) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	p.Templates.Append(ref)
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) RemoveTemplate(_ context.Context, id string, index int) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	if err := p.Templates.RemoveAt(index); err != nil {
		return nil, err
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) UpdateMockup(_ context.Context, id string, update domain.MockupUpdate) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	p.CoverArea = update.Area
	p.CoverSize = update.Size
	if update.MockupImage != nil {
		p.MockupImage = *update.MockupImage
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memProductRepo) CountByCategory(_ context.Context) (map[string]int64, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	counts := make(map[string]int64)
	for _, p := range r.products {
		counts[p.Category]++
	}
	return counts, nil
}

// memOrderRepo is an in-memory OrderRepository.
type memOrderRepo struct {
	orders   map[string]*domain.Order
	inserted []string
	failWith error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	order.ID = primitive.NewObjectID()
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	r.orders[order.ID.Hex()] = &copied
	r.inserted = append(r.inserted, order.ID.Hex())
	return order, nil
}

func (r *memOrderRepo) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with id %s", domain.ErrNotFound, id)
	}
	copied := *o
	copied.Items = append([]domain.OrderItem(nil), o.Items...)
	return &copied, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, params domain.ListOrdersParams) (*domain.OrderPage, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	matched := []domain.Order{}
	for i := len(r.inserted) - 1; i >= 0; i-- {
		o := r.orders[r.inserted[i]]
		if params.Status != "" && o.Status != params.Status {
			continue
		}
		if params.Kind == domain.KindPetAsset && !o.HasPetAsset() {
			continue
		}
		if params.Kind == domain.KindSimple && o.HasPetAsset() {
			continue
		}
		matched = append(matched, *o)
	}
	total := int64(len(matched))
	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if pages < 1 {
		pages = 1
	}
	start := (params.Page - 1) * params.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &domain.OrderPage{Orders: matched[start:end], Page: params.Page, Pages: pages, Total: total}, nil
}

func (r *memOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := []domain.Order{}
	for i := len(r.inserted) - 1; i >= 0; i-- {
		if o := r.orders[r.inserted[i]]; o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ConfirmOrder(_ context.Context, id string) (*domain.Order, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with id %s", domain.ErrNotFound, id)
	}
	if err := o.Confirm(); err != nil {
		return nil, err
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) DeleteOrder(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("%w: order with id %s", domain.ErrNotFound, id)
	}
	delete(r.orders, id)
	return nil
}
