package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcover_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, params domain.ListOrdersParams) (*domain.OrderPage, error)
	GetOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ConfirmOrder(ctx context.Context, id string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderUseCase struct {
	orderRepo domain.OrderRepository
	log       *logrus.Logger
}

var _ OrderUseCase = (*orderUseCase)(nil)

func NewOrderUseCase(repo domain.OrderRepository, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		log:       logger,
	}
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (uc *orderUseCase) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || len(order.Items) == 0 {
		uc.log.Warn("Use Case: Attempted to create order without items")
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}
	if strings.TrimSpace(order.FullName) == "" {
		return nil, fmt.Errorf("%w: customer name cannot be empty", domain.ErrValidation)
	}
	if strings.TrimSpace(order.Email) == "" {
		return nil, fmt.Errorf("%w: customer email cannot be empty", domain.ErrValidation)
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ProductID == "" || item.ProductName == "" {
			return nil, fmt.Errorf("%w: item %d is missing its product snapshot", domain.ErrValidation, i)
		}
		if item.Quantity < 1 {
			uc.log.Warnf("Use Case: Order item %d has invalid quantity %d", i, item.Quantity)
			return nil, fmt.Errorf("%w: item %d quantity must be at least 1", domain.ErrValidation, i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: item %d price cannot be negative", domain.ErrValidation, i)
		}
		// Stamp the variant at write time so listing filters stop
		// shape-sniffing every document.
		item.Kind = domain.ClassifyItem(*item)
	}

	// The submitted total is not trusted; it is recomputed from the item
	// subtotals before the order is persisted.
	order.Total = order.ComputedTotal()
	order.Status = domain.StatusPending
	order.CreatedAt = time.Now().UTC()

	uc.log.Infof("Use Case: Creating order for '%s' with %d items (total %.2f)", order.FullName, len(order.Items), order.Total)
	created, err := uc.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for '%s': %v", order.FullName, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order created successfully with ID %s", created.ID.Hex())
	return created, nil
}

func (uc *orderUseCase) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id cannot be empty", domain.ErrValidation)
	}
	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order %s: %v", id, err)
		return nil, err
	}
	return order, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, params domain.ListOrdersParams) (*domain.OrderPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 || params.Limit > maxPageLimit {
		params.Limit = defaultPageLimit
	}
	if params.Status != "" && !domain.IsValidStatus(params.Status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, params.Status)
	}
	if params.Kind != "" && params.Kind != domain.KindSimple && params.Kind != domain.KindPetAsset {
		return nil, fmt.Errorf("%w: unknown order type %q", domain.ErrValidation, params.Kind)
	}

	uc.log.Infof("Use Case: Listing orders (page %d, limit %d, search %q)", params.Page, params.Limit, params.Search)
	page, err := uc.orderRepo.ListOrders(ctx, params)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders: %v", err)
		return nil, err
	}
	uc.log.Infof("Use Case: Retrieved %d of %d orders (page %d/%d)", len(page.Orders), page.Total, page.Page, page.Pages)
	return page, nil
}

func (uc *orderUseCase) GetOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id cannot be empty", domain.ErrValidation)
	}
	orders, err := uc.orderRepo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %s: %v", userID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Retrieved %d orders for user %s", len(orders), userID)
	return orders, nil
}

// ConfirmOrder applies the one-way pending-to-confirmed transition. A repeat
// confirm fails with ErrAlreadyConfirmed; callers wanting no-op semantics
// check errors.Is against it.
func (uc *orderUseCase) ConfirmOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id cannot be empty", domain.ErrValidation)
	}
	uc.log.Infof("Use Case: Confirming order %s", id)
	order, err := uc.orderRepo.ConfirmOrder(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to confirm order %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s confirmed", id)
	return order, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: order id cannot be empty", domain.ErrValidation)
	}
	uc.log.Infof("Use Case: Deleting order %s", id)
	if err := uc.orderRepo.DeleteOrder(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete order %s: %v", id, err)
		return err
	}
	return nil
}
