package repository

import (
	"context"
	"errors"
	"fmt"

	"petcover_service/internal/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productCollection = "products"

type mongoProductRepository struct {
	col *mongo.Collection
	log *logrus.Logger
}

func NewMongoProductRepository(db *mongo.Database, logger *logrus.Logger) domain.ProductRepository {
	return &mongoProductRepository{
		col: db.Collection(productCollection),
		log: logger,
	}
}

func productID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: product with id %q", domain.ErrNotFound, id)
	}
	return oid, nil
}

func (r *mongoProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		r.log.Errorf("Failed to insert product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("%w: could not create product: %v", domain.ErrRepository, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	r.log.Infof("Product created with ID %s, name %s", product.ID.Hex(), product.Name)
	return product, nil
}

func (r *mongoProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := productID(id)
	if err != nil {
		return nil, err
	}
	product := &domain.Product{}
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Product with ID %s not found", id)
			return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get product %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not get product: %v", domain.ErrRepository, err)
	}
	return product, nil
}

func (r *mongoProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("%w: could not list products: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.log.Errorf("Failed to decode product list: %v", err)
		return nil, fmt.Errorf("%w: could not decode products: %v", domain.ErrRepository, err)
	}
	r.log.Debugf("Retrieved %d products", len(products))
	return products, nil
}

// AddTemplate appends with a server-side $push so interleaved uploads from
// concurrent admin requests never overwrite each other with a stale list.
func (r *mongoProductRepository) AddTemplate(ctx context.Context, id, ref string) (*domain.Product, error) {
	oid, err := productID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &domain.Product{}
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"templates": ref}},
		opts,
	).Decode(updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to push template onto product %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not add template: %v", domain.ErrRepository, err)
	}
	r.log.Infof("Template appended to product %s (%d templates)", id, len(updated.Templates))
	return updated, nil
}

// RemoveTemplate is the index-addressed removal: unset the slot server-side,
// then pull the null so the remaining entries compact with no gaps. The unset
// is guarded on the slot existing, so a stale index fails instead of silently
// widening the array.
func (r *mongoProductRepository) RemoveTemplate(ctx context.Context, id string, index int) (*domain.Product, error) {
	oid, err := productID(id)
	if err != nil {
		return nil, err
	}
	slot := fmt.Sprintf("templates.%d", index)
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, slot: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{slot: 1}},
	)
	if err != nil {
		r.log.Errorf("Failed to unset template %d on product %s: %v", index, id, err)
		return nil, fmt.Errorf("%w: could not remove template: %v", domain.ErrRepository, err)
	}
	if res.MatchedCount == 0 {
		// Either the product is gone or the index no longer exists.
		if _, getErr := r.GetProductByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		r.log.Warnf("Template index %d no longer exists on product %s", index, id)
		return nil, fmt.Errorf("%w: template index %d", domain.ErrIndexOutOfRange, index)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &domain.Product{}
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"templates": nil}},
		opts,
	).Decode(updated)
	if err != nil {
		r.log.Errorf("Failed to compact templates on product %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not compact templates: %v", domain.ErrRepository, err)
	}
	r.log.Infof("Template %d removed from product %s (%d remain)", index, id, len(updated.Templates))
	return updated, nil
}

func (r *mongoProductRepository) UpdateMockup(ctx context.Context, id string, update domain.MockupUpdate) (*domain.Product, error) {
	oid, err := productID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"coverArea": update.Area,
		"coverSize": update.Size,
	}
	if update.MockupImage != nil {
		set["mockupImage"] = *update.MockupImage
	}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &domain.Product{}
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Product with ID %s not found for mockup update", id)
			return nil, fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to update mockup for product %s: %v", id, err)
		return nil, fmt.Errorf("%w: could not update mockup: %v", domain.ErrRepository, err)
	}
	r.log.Infof("Mockup updated for product %s (cover %dx%d)", id, updated.CoverSize.Width, updated.CoverSize.Height)
	return updated, nil
}

func (r *mongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	oid, err := productID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.Errorf("Failed to delete product %s: %v", id, err)
		return fmt.Errorf("%w: could not delete product: %v", domain.ErrRepository, err)
	}
	if res.DeletedCount == 0 {
		r.log.Warnf("Product with ID %s not found for deletion", id)
		return fmt.Errorf("%w: product with id %s", domain.ErrNotFound, id)
	}
	r.log.Infof("Product %s deleted", id)
	return nil
}

func (r *mongoProductRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		r.log.Errorf("Failed to aggregate products by category: %v", err)
		return nil, fmt.Errorf("%w: could not count by category: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: could not decode category counts: %v", domain.ErrRepository, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}
