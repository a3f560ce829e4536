package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"petcover_service/internal/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollection = "orders"

type mongoOrderRepository struct {
	col *mongo.Collection
	log *logrus.Logger
}

func NewMongoOrderRepository(db *mongo.Database, logger *logrus.Logger) domain.OrderRepository {
	return &mongoOrderRepository{
		col: db.Collection(orderCollection),
		log: logger,
	}
}

func orderID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: order with id %q", domain.ErrNotFound, id)
	}
	return oid, nil
}

func (r *mongoOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		r.log.Errorf("Failed to insert order for '%s': %v", order.FullName, err)
		return nil, fmt.Errorf("%w: could not create order: %v", domain.ErrRepository, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	r.log.Infof("Order created with ID %s (%d items)", order.ID.Hex(), len(order.Items))
	return order, nil
}

func (r *mongoOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := orderID(id)
	if err != nil {
		return nil, err
	}
	order := &domain.Order{}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Order with ID %s not found", id)
			return nil, fmt.Errorf("%w: order with id %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get order %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not get order: %v", domain.ErrRepository, err)
	}
	return order, nil
}

// petItemShape matches items that carry pet-customization assets. Documents
// written before the kind discriminator existed only expose the shape, so the
// filter checks both.
func petItemShape() []bson.M {
	return []bson.M{
		{"kind": domain.KindPetAsset},
		{"templateImage": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
		{"userCustomImage": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
	}
}

// buildOrderFilter translates the listing params into a single query
// document. Kept pure so it is testable without a running server.
func buildOrderFilter(params domain.ListOrdersParams) bson.M {
	filter := bson.M{}

	if params.Status != "" {
		filter["status"] = params.Status
	}

	switch params.Kind {
	case domain.KindPetAsset:
		filter["items"] = bson.M{"$elemMatch": bson.M{"$or": petItemShape()}}
	case domain.KindSimple:
		filter["items"] = bson.M{"$not": bson.M{"$elemMatch": bson.M{"$or": petItemShape()}}}
	}

	if params.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		or := []bson.M{
			{"fullName": pattern},
			{"email": pattern},
		}
		if oid, err := primitive.ObjectIDFromHex(params.Search); err == nil {
			or = append(or, bson.M{"_id": oid})
		}
		filter["$or"] = or
	}

	return filter
}

func (r *mongoOrderRepository) ListOrders(ctx context.Context, params domain.ListOrdersParams) (*domain.OrderPage, error) {
	filter := buildOrderFilter(params)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		r.log.Errorf("Failed to count orders: %v", err)
		return nil, fmt.Errorf("%w: could not count orders: %v", domain.ErrRepository, err)
	}

	skip := int64(params.Page-1) * int64(params.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(params.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("%w: could not list orders: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		r.log.Errorf("Failed to decode order list: %v", err)
		return nil, fmt.Errorf("%w: could not decode orders: %v", domain.ErrRepository, err)
	}

	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if pages < 1 {
		pages = 1
	}

	r.log.Debugf("Listed %d orders (page %d/%d, total %d)", len(orders), params.Page, pages, total)
	return &domain.OrderPage{
		Orders: orders,
		Page:   params.Page,
		Pages:  pages,
		Total:  total,
	}, nil
}

func (r *mongoOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		r.log.Errorf("Failed to list orders for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: could not list orders for user: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("%w: could not decode user orders: %v", domain.ErrRepository, err)
	}
	return orders, nil
}

// ConfirmOrder transitions pending to confirmed with a single conditional
// update, so two concurrent confirms cannot both succeed and a confirmed
// order can never flip back.
func (r *mongoOrderRepository) ConfirmOrder(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := orderID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	order := &domain.Order{}
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": domain.StatusPending},
		bson.M{"$set": bson.M{"status": domain.StatusConfirmed}},
		opts,
	).Decode(order)
	if err == nil {
		r.log.Infof("Order %s confirmed", id)
		return order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		r.log.Errorf("Failed to confirm order %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not confirm order: %v", domain.ErrRepository, err)
	}

	// No pending order matched: distinguish a missing order from one that is
	// already confirmed.
	existing, getErr := r.GetOrderByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	r.log.Warnf("Order %s is already confirmed", id)
	return nil, fmt.Errorf("%w: order %s", domain.ErrAlreadyConfirmed, existing.ID.Hex())
}

func (r *mongoOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	oid, err := orderID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.Errorf("Failed to delete order %s: %v", id, err)
		return fmt.Errorf("%w: could not delete order: %v", domain.ErrRepository, err)
	}
	if res.DeletedCount == 0 {
		r.log.Warnf("Order with ID %s not found for deletion", id)
		return fmt.Errorf("%w: order with id %s", domain.ErrNotFound, id)
	}
	r.log.Infof("Order %s deleted", id)
	return nil
}
