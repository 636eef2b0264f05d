package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

// stubProducts is an in-memory ProductRepository that counts slug lookups.
type stubProducts struct {
	byID        map[uuid.UUID]*domain.Product
	bySlug      map[string]*domain.Product
	slugLookups int
}

func newStubProducts() *stubProducts {
	return &stubProducts{
		byID:   make(map[uuid.UUID]*domain.Product),
		bySlug: make(map[string]*domain.Product),
	}
}

func (s *stubProducts) put(p *domain.Product) {
	s.byID[p.ID] = p
	s.bySlug[p.Slug] = p
}

func (s *stubProducts) Insert(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.put(p)
	return p, nil
}

func (s *stubProducts) Replace(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if prev, ok := s.byID[p.ID]; ok {
		delete(s.bySlug, prev.Slug)
	}
	s.put(p)
	return p, nil
}

func (s *stubProducts) Delete(_ context.Context, id uuid.UUID) error {
	if prev, ok := s.byID[id]; ok {
		delete(s.bySlug, prev.Slug)
		delete(s.byID, id)
		return nil
	}
	return ErrProductNotFound
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, ErrProductNotFound
}

func (s *stubProducts) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.slugLookups++
	if p, ok := s.bySlug[slug]; ok {
		return p, nil
	}
	return nil, ErrProductNotFound
}

func (s *stubProducts) List(_ context.Context, _, _ int) ([]*domain.Product, int, error) {
	out := make([]*domain.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func newCacheUnderTest(t *testing.T) (*stubProducts, ProductRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := newStubProducts()
	return inner, NewCachedProductRepository(inner, NewRedisCache(client), zap.NewNop())
}

func TestCachedFindBySlug(t *testing.T) {
	ctx := context.Background()
	inner, cached := newCacheUnderTest(t)

	product := newProduct("cached_tee")
	inner.put(product)

	first, err := cached.FindBySlug(ctx, "cached_tee")
	if err != nil {
		t.Fatalf("unexpected error on first lookup: %v", err)
	}
	second, err := cached.FindBySlug(ctx, "cached_tee")
	if err != nil {
		t.Fatalf("unexpected error on second lookup: %v", err)
	}

	if inner.slugLookups != 1 {
		t.Errorf("expected 1 database lookup, got %d", inner.slugLookups)
	}
	if first.ID != product.ID || second.ID != product.ID {
		t.Errorf("cache returned a different product")
	}
	if second.Slug != product.Slug || second.Title != product.Title {
		t.Errorf("cached copy lost attributes: %+v", second)
	}
}

func TestCachedMissIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner, cached := newCacheUnderTest(t)

	if _, err := cached.FindBySlug(ctx, "ghost"); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	// the product appears later; the earlier miss must not mask it
	inner.put(newProduct("ghost"))
	if _, err := cached.FindBySlug(ctx, "ghost"); err != nil {
		t.Errorf("expected product after it was created, got %v", err)
	}
}

func TestReplaceInvalidatesBothSlugs(t *testing.T) {
	ctx := context.Background()
	inner, cached := newCacheUnderTest(t)

	product := newProduct("old_slug")
	inner.put(product)

	// warm the cache under the old slug
	if _, err := cached.FindBySlug(ctx, "old_slug"); err != nil {
		t.Fatalf("unexpected error warming cache: %v", err)
	}

	renamed := *product
	renamed.Slug = "new_slug"
	if _, err := cached.Replace(ctx, &renamed); err != nil {
		t.Fatalf("unexpected error replacing product: %v", err)
	}

	if _, err := cached.FindBySlug(ctx, "old_slug"); err != ErrProductNotFound {
		t.Errorf("expected stale slug to be gone, got %v", err)
	}
	if p, err := cached.FindBySlug(ctx, "new_slug"); err != nil || p.Slug != "new_slug" {
		t.Errorf("expected product under new slug, got %v %v", p, err)
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	inner, cached := newCacheUnderTest(t)

	product := newProduct("doomed")
	inner.put(product)

	if _, err := cached.FindBySlug(ctx, "doomed"); err != nil {
		t.Fatalf("unexpected error warming cache: %v", err)
	}

	if err := cached.Delete(ctx, product.ID); err != nil {
		t.Fatalf("unexpected error deleting product: %v", err)
	}

	if _, err := cached.FindBySlug(ctx, "doomed"); err != ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
}
