package domain

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a customizable catalog entry. Field names in bson match the
// original store documents so existing data keeps loading.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Key         string             `bson:"key" json:"key"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Templates   TemplateList       `bson:"templates" json:"templates"`
	MockupImage string             `bson:"mockupImage,omitempty" json:"mockupImage,omitempty"`
	CoverArea   CoverArea          `bson:"coverArea" json:"coverArea"`
	CoverSize   CoverSize          `bson:"coverSize" json:"coverSize"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ResolvedTemplates returns the customization options customers pick from,
// falling back to the legacy images slot when no templates exist.
func (p *Product) ResolvedTemplates() []string {
	return ResolveTemplates(p.Images, p.Templates)
}

// Geometry returns the product's cover geometry bound to the given limits.
func (p *Product) Geometry(b SizeBounds) CoverGeometry {
	return CoverGeometry{Area: p.CoverArea, Size: p.CoverSize, Bounds: b}
}

// Placement is what the rendering collaborator consumes.
func (p *Product) Placement() Placement {
	return Placement{MockupImage: p.MockupImage, Area: p.CoverArea, Size: p.CoverSize}
}

// MakeKey derives the product slug from its name: lowercased, whitespace runs
// collapsed to single hyphens. Uniqueness is a repository concern.
func MakeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// CategorySet is the closed, externally configured set of admissible product
// categories.
type CategorySet []string

func (s CategorySet) Contains(category string) bool {
	for _, c := range s {
		if c == category {
			return true
		}
	}
	return false
}

// MockupUpdate carries the combined mockup/geometry update. Nil pointers mean
// "leave unchanged"; Area and Size are always written together with the
// mockup so the three stay self-consistent.
type MockupUpdate struct {
	MockupImage *string
	Area        CoverArea
	Size        CoverSize
	Name        *string
	Price       *float64
}

// ProductRepository is the persistence boundary for the catalog. Mutations
// must be applied as single atomic document updates; AddTemplate in
// particular must not lose concurrent appends to a stale full-list replace.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	AddTemplate(ctx context.Context, id, ref string) (*Product, error)
	RemoveTemplate(ctx context.Context, id string, index int) (*Product, error)
	UpdateMockup(ctx context.Context, id string, update MockupUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountByCategory(ctx context.Context) (map[string]int64, error)
}
