package domain

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed:
		return true
	default:
		return false
	}
}

// ItemKind discriminates the two order item variants. It is stamped at write
// time; ClassifyItem keeps the structural rule for documents written before
// the field existed.
type ItemKind string

const (
	KindSimple   ItemKind = "simple"
	KindPetAsset ItemKind = "pet_asset"
)

// OrderItem is an immutable fulfillment snapshot. Product name and images are
// denormalized copies, not live references: later catalog edits or deletions
// must never change what gets printed.
type OrderItem struct {
	ProductID       string   `bson:"productId" json:"productId"`
	ProductName     string   `bson:"productName" json:"productName"`
	DesignImage     string   `bson:"designImage,omitempty" json:"designImage,omitempty"`
	TemplateImage   string   `bson:"templateImage,omitempty" json:"templateImage,omitempty"`
	UserCustomImage string   `bson:"userCustomImage,omitempty" json:"userCustomImage,omitempty"`
	CustomText      string   `bson:"customText,omitempty" json:"customText,omitempty"`
	Price           float64  `bson:"price" json:"price"`
	Quantity        int      `bson:"quantity" json:"quantity"`
	Kind            ItemKind `bson:"kind,omitempty" json:"kind,omitempty"`
}

// ClassifyItem derives the item variant from its shape: anything carrying a
// template or user-uploaded asset is a pet customization, the rest are simple
// pre-rendered designs.
func ClassifyItem(item OrderItem) ItemKind {
	if item.TemplateImage != "" || item.UserCustomImage != "" {
		return KindPetAsset
	}
	return KindSimple
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is a customer order aggregate. After creation it only changes through
// the one-way status transition or whole-aggregate deletion.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Items     []OrderItem        `bson:"items" json:"items"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Total     float64            `bson:"total" json:"total"`
	Status    OrderStatus        `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Confirm transitions pending to confirmed. Confirmation is one-way; a repeat
// confirm fails with ErrAlreadyConfirmed and leaves the order unchanged.
func (o *Order) Confirm() error {
	if o.Status == StatusConfirmed {
		return fmt.Errorf("%w: order %s", ErrAlreadyConfirmed, o.ID.Hex())
	}
	o.Status = StatusConfirmed
	return nil
}

// ComputedTotal is the sum of item subtotals. The stored Total is recomputed
// from this at creation time; submitted values are not trusted.
func (o *Order) ComputedTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// HasPetAsset reports whether any item carries pet-customization assets,
// checking the stored discriminator first and the item shape for legacy
// documents.
func (o *Order) HasPetAsset() bool {
	for _, item := range o.Items {
		if item.Kind == KindPetAsset || ClassifyItem(item) == KindPetAsset {
			return true
		}
	}
	return false
}

// ListOrdersParams are the repository-level listing filters. Search substring
// matches customer name, email or order id; Kind filters by item variant and
// must also match legacy documents without a stored discriminator.
type ListOrdersParams struct {
	Page   int
	Limit  int
	Search string
	Status OrderStatus
	Kind   ItemKind
}

// OrderPage is the pagination envelope returned by ListOrders.
type OrderPage struct {
	Orders []Order `json:"data"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
	Total  int64   `json:"total"`
}

// OrderRepository is the persistence boundary for orders. ConfirmOrder must
// apply the pending-to-confirmed transition as a single conditional update so
// concurrent confirms cannot both succeed.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) (*OrderPage, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]Order, error)
	ConfirmOrder(ctx context.Context, id string) (*Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
