package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcover_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, name, category string, price float64, initialTemplates []string) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	AddTemplate(ctx context.Context, id, ref string) (*domain.Product, error)
	AddTemplates(ctx context.Context, id string, refs []string) (*domain.Product, error)
	RemoveTemplate(ctx context.Context, id string, index int) (*domain.Product, error)
	UpdateMockup(ctx context.Context, id string, update domain.MockupUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

type productUseCase struct {
	productRepo domain.ProductRepository
	categories  domain.CategorySet
	bounds      domain.SizeBounds
	log         *logrus.Logger
}

var _ ProductUseCase = (*productUseCase)(nil)

func NewProductUseCase(repo domain.ProductRepository, categories domain.CategorySet, bounds domain.SizeBounds, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		categories:  categories,
		bounds:      bounds,
		log:         logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, name, category string, price float64, initialTemplates []string) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warn("Use Case: Attempted to create product with empty name")
		return nil, fmt.Errorf("%w: product name cannot be empty", domain.ErrValidation)
	}
	if !uc.categories.Contains(category) {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with unknown category '%s'", name, category)
		return nil, fmt.Errorf("%w: category %q is not in the configured set", domain.ErrValidation, category)
	}
	if price < 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with negative price: %f", name, price)
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if len(initialTemplates) == 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' without templates", name)
		return nil, fmt.Errorf("%w: a product needs at least one template image", domain.ErrValidation)
	}
	for i, ref := range initialTemplates {
		if ref == "" {
			return nil, fmt.Errorf("%w: template %d is an empty image reference", domain.ErrValidation, i)
		}
	}

	product := &domain.Product{
		Name:     name,
		Category: category,
		Key:      domain.MakeKey(name),
		Price:    price,
		// The legacy images slot mirrors the initial templates so clients
		// that predate the templates field keep working.
		Images:    append([]string(nil), initialTemplates...),
		Templates: append(domain.TemplateList(nil), initialTemplates...),
		CoverArea: domain.DefaultCoverArea(),
		CoverSize: domain.DefaultCoverSize(),
		CreatedAt: time.Now().UTC(),
	}

	uc.log.Infof("Use Case: Attempting to create product '%s' (key: %s)", product.Name, product.Key)
	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product '%s' created successfully with ID %s", created.Name, created.ID.Hex())
	return created, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", domain.ErrValidation)
	}
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}
	uc.log.Infof("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *productUseCase) AddTemplate(ctx context.Context, id, ref string) (*domain.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", domain.ErrValidation)
	}
	if ref == "" {
		uc.log.Warnf("Use Case: Attempted to add empty template reference to product %s", id)
		return nil, fmt.Errorf("%w: template image reference cannot be empty", domain.ErrValidation)
	}

	uc.log.Infof("Use Case: Adding template to product %s", id)
	updated, err := uc.productRepo.AddTemplate(ctx, id, ref)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to add template to product %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product %s now has %d templates", id, len(updated.Templates))
	return updated, nil
}

// AddTemplates appends each reference with an independent atomic call, the
// way the admin tooling uploads one request per file. Policy is best-effort:
// a failed append does not roll back the ones already applied.
func (uc *productUseCase) AddTemplates(ctx context.Context, id string, refs []string) (*domain.Product, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no template references provided", domain.ErrValidation)
	}
	var updated *domain.Product
	for i, ref := range refs {
		p, err := uc.AddTemplate(ctx, id, ref)
		if err != nil {
			uc.log.Warnf("Use Case: Template %d of %d failed for product %s, keeping earlier appends: %v", i+1, len(refs), id, err)
			return updated, err
		}
		updated = p
	}
	return updated, nil
}

func (uc *productUseCase) RemoveTemplate(ctx context.Context, id string, index int) (*domain.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", domain.ErrValidation)
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Product %s not found for template removal: %v", id, err)
		return nil, err
	}
	if index < 0 || index >= len(product.Templates) {
		uc.log.Warnf("Use Case: Template index %d out of range for product %s (%d templates)", index, id, len(product.Templates))
		return nil, fmt.Errorf("%w: template index %d with %d templates", domain.ErrIndexOutOfRange, index, len(product.Templates))
	}

	// Removing the last template is legal: the product falls back to its
	// legacy images, or to an empty customization list.
	uc.log.Infof("Use Case: Removing template %d from product %s", index, id)
	updated, err := uc.productRepo.RemoveTemplate(ctx, id, index)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to remove template %d from product %s: %v", index, id, err)
		return nil, err
	}
	return updated, nil
}

func (uc *productUseCase) UpdateMockup(ctx context.Context, id string, update domain.MockupUpdate) (*domain.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", domain.ErrValidation)
	}
	if err := update.Area.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected cover area for product %s: %v", id, err)
		return nil, err
	}
	if err := update.Size.Validate(uc.bounds); err != nil {
		uc.log.Warnf("Use Case: Rejected cover size for product %s: %v", id, err)
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty if provided for update", domain.ErrValidation)
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative if provided for update", domain.ErrValidation)
	}

	uc.log.Infof("Use Case: Updating mockup and geometry for product %s", id)
	updated, err := uc.productRepo.UpdateMockup(ctx, id, update)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update mockup for product %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product %s mockup updated (cover %dx%d)", id, updated.CoverSize.Width, updated.CoverSize.Height)
	return updated, nil
}

// DeleteProduct removes the catalog entry only. Orders keep their snapshots:
// deletion never cascades into existing order items.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id cannot be empty", domain.ErrValidation)
	}
	uc.log.Infof("Use Case: Deleting product %s", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete product %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product %s deleted", id)
	return nil
}

func (uc *productUseCase) CountByCategory(ctx context.Context) (map[string]int64, error) {
	counts, err := uc.productRepo.CountByCategory(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to count products by category: %v", err)
		return nil, err
	}
	return counts, nil
}
