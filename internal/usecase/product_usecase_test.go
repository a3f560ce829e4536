package usecase

import (
	"context"
	"testing"

	"petcover_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = domain.CategorySet{
	"Daily Necessities", "3C Products", "Home Goods", "Pet Supplies", "Pet Apparel",
}

func newProductUC(repo domain.ProductRepository) ProductUseCase {
	return NewProductUseCase(repo, testCategories, domain.DefaultSizeBounds(), testLogger())
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uc := newProductUC(newMemProductRepo())
		p, err := uc.CreateProduct(ctx, "Pet Bowl", "Pet Supplies", 200, []string{"imgA"})
		require.NoError(t, err)

		assert.Equal(t, "pet-bowl", p.Key)
		assert.Equal(t, []string{"imgA"}, []string(p.Templates))
		assert.Equal(t, []string{"imgA"}, p.Images, "legacy slot mirrors initial templates")
		assert.Equal(t, domain.DefaultCoverArea(), p.CoverArea)
		assert.Equal(t, domain.DefaultCoverSize(), p.CoverSize)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.ID.IsZero())
	})

	t.Run("validation failures", func(t *testing.T) {
		uc := newProductUC(newMemProductRepo())
		tests := []struct {
			name      string
			pname     string
			category  string
			price     float64
			templates []string
		}{
			{"empty name", "", "Pet Supplies", 10, []string{"img"}},
			{"whitespace name", "   ", "Pet Supplies", 10, []string{"img"}},
			{"unknown category", "Bowl", "Electronics", 10, []string{"img"}},
			{"negative price", "Bowl", "Pet Supplies", -1, []string{"img"}},
			{"no templates", "Bowl", "Pet Supplies", 10, nil},
			{"empty template ref", "Bowl", "Pet Supplies", 10, []string{""}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.CreateProduct(ctx, tt.pname, tt.category, tt.price, tt.templates)
				assert.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})

	t.Run("zero price is legal", func(t *testing.T) {
		uc := newProductUC(newMemProductRepo())
		_, err := uc.CreateProduct(ctx, "Freebie", "Home Goods", 0, []string{"img"})
		assert.NoError(t, err)
	})
}

func TestAddTemplate(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	uc := newProductUC(repo)

	p, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 200, []string{"imgA"})
	require.NoError(t, err)

	updated, err := uc.AddTemplate(ctx, p.ID.Hex(), "imgB")
	require.NoError(t, err)
	assert.Equal(t, []string{"imgA", "imgB"}, []string(updated.Templates), "order preserved")

	_, err = uc.AddTemplate(ctx, p.ID.Hex(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.AddTemplate(ctx, "ffffffffffffffffffffffff", "imgC")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddTemplatesBestEffort(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	uc := newProductUC(repo)

	p, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 200, []string{"imgA"})
	require.NoError(t, err)

	// An empty ref in the middle fails the batch, but the appends before it
	// are kept.
	_, err = uc.AddTemplates(ctx, p.ID.Hex(), []string{"imgB", "", "imgC"})
	require.ErrorIs(t, err, domain.ErrValidation)

	current, err := uc.GetProductByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"imgA", "imgB"}, []string(current.Templates))
}

func TestRemoveTemplate(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(newMemProductRepo())

	p, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 200, []string{"imgA", "imgB", "imgC"})
	require.NoError(t, err)
	id := p.ID.Hex()

	updated, err := uc.RemoveTemplate(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"imgA", "imgC"}, []string(updated.Templates))

	_, err = uc.RemoveTemplate(ctx, id, 5)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = uc.RemoveTemplate(ctx, id, -1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	// Removing down to zero templates is allowed.
	_, err = uc.RemoveTemplate(ctx, id, 1)
	require.NoError(t, err)
	updated, err = uc.RemoveTemplate(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Templates)
	assert.Equal(t, []string{"imgA", "imgB", "imgC"}, updated.ResolvedTemplates(), "falls back to legacy images")
}

func TestUpdateMockup(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(newMemProductRepo())

	p, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 200, []string{"imgA"})
	require.NoError(t, err)
	id := p.ID.Hex()

	t.Run("rejects bad geometry", func(t *testing.T) {
		_, err := uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			Area: domain.CoverArea{X: 0.6, Y: 0, Width: 0.6, Height: 1},
			Size: domain.DefaultCoverSize(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidGeometry)

		_, err = uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			Area: domain.DefaultCoverArea(),
			Size: domain.CoverSize{Width: 0, Height: 500},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
	})

	t.Run("combined update", func(t *testing.T) {
		mockup := "mockup.png"
		name := "Big Bowl"
		price := 250.0
		updated, err := uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			MockupImage: &mockup,
			Area:        domain.CoverArea{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5},
			Size:        domain.CoverSize{Width: 300, Height: 500},
			Name:        &name,
			Price:       &price,
		})
		require.NoError(t, err)
		assert.Equal(t, "mockup.png", updated.MockupImage)
		assert.Equal(t, "Big Bowl", updated.Name)
		assert.Equal(t, 250.0, updated.Price)
		assert.Equal(t, domain.CoverArea{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}, updated.CoverArea)
	})

	t.Run("geometry only keeps mockup", func(t *testing.T) {
		updated, err := uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			Area: domain.DefaultCoverArea(),
			Size: domain.CoverSize{Width: 400, Height: 600},
		})
		require.NoError(t, err)
		assert.Equal(t, "mockup.png", updated.MockupImage, "nil mockup pointer leaves image unchanged")
		assert.Equal(t, domain.CoverSize{Width: 400, Height: 600}, updated.CoverSize)
	})

	t.Run("optional field validation", func(t *testing.T) {
		empty := "  "
		_, err := uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			Area: domain.DefaultCoverArea(),
			Size: domain.DefaultCoverSize(),
			Name: &empty,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		negative := -5.0
		_, err = uc.UpdateMockup(ctx, id, domain.MockupUpdate{
			Area:  domain.DefaultCoverArea(),
			Size:  domain.DefaultCoverSize(),
			Price: &negative,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(newMemProductRepo())

	p, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 200, []string{"imgA"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(ctx, p.ID.Hex()))
	_, err = uc.GetProductByID(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.DeleteProduct(ctx, p.ID.Hex()), domain.ErrNotFound)
}

func TestRepositoryErrorsSurfaceUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	repo.failWith = domain.ErrRepository
	uc := newProductUC(repo)

	_, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 10, []string{"img"})
	assert.ErrorIs(t, err, domain.ErrRepository, "no retry or swallowing inside the core")

	_, err = uc.ListProducts(ctx)
	assert.ErrorIs(t, err, domain.ErrRepository)
}

func TestCountByCategory(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(newMemProductRepo())

	_, err := uc.CreateProduct(ctx, "Bowl", "Pet Supplies", 10, []string{"a"})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, "Leash", "Pet Supplies", 15, []string{"b"})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, "Mug", "Home Goods", 8, []string{"c"})
	require.NoError(t, err)

	counts, err := uc.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["Pet Supplies"])
	assert.Equal(t, int64(1), counts["Home Goods"])
}
