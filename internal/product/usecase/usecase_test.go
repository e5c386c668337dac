package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/product/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/pkg/search"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	products  map[string]model.Product
	findAll   int
	deleteErr error
}

func (m *memRepo) Create(_ context.Context, p *model.Product) error {
	m.products[p.ID] = *p
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepo) FindAll(_ context.Context, _ *dto.ProductFilters) ([]model.Product, int, error) {
	m.findAll++
	out := []model.Product{}
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, p *model.Product) error { return m.Create(ctx, p) }

func (m *memRepo) SetArchived(_ context.Context, id string, archived bool) error {
	p := m.products[id]
	p.IsArchived = archived
	m.products[id] = p
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.products, id)
	return nil
}

func (m *memRepo) IsSKUUnique(_ context.Context, sku, excludeID string) (bool, error) {
	for id, p := range m.products {
		if id != excludeID && p.SKU == sku {
			return false, nil
		}
	}
	return true, nil
}

type memCache struct {
	data        map[string][]byte
	invalidated int
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.invalidated++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type stubSearch struct {
	indexed []string
	deleted []string
	hits    []model.Product
	err     error
}

func (s *stubSearch) CreateIndex(context.Context, string, string) error { return nil }

func (s *stubSearch) Index(_ context.Context, _ string, id string, _ interface{}) error {
	s.indexed = append(s.indexed, id)
	return nil
}

func (s *stubSearch) Search(_ context.Context, _ string, _ map[string]interface{}) (*search.SearchResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	res := &search.SearchResponse{}
	res.Hits.Total.Value = len(s.hits)
	for _, p := range s.hits {
		src, _ := json.Marshal(p)
		res.Hits.Hits = append(res.Hits.Hits, search.Hit{ID: p.ID, Source: src})
	}
	return res, nil
}

func (s *stubSearch) Delete(_ context.Context, _ string, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestUseCase(es Searcher) (*productUseCase, *memRepo, *memCache) {
	repo := &memRepo{products: map[string]model.Product{}}
	c := &memCache{data: map[string][]byte{}}
	uc := NewProductUseCase(repo, c, es, logger.NewNop()).(*productUseCase)
	uc.runAsync = func(fn func()) { fn() }
	return uc, repo, c
}

func TestCreateProduct(t *testing.T) {
	es := &stubSearch{}
	uc, _, c := newTestUseCase(es)

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU: " WID-1 ", Name: "Widget", Price: decimal.RequireFromString("9.99"), MinimumStock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "WID-1", p.SKU)
	assert.Nil(t, p.Description)
	assert.Equal(t, []string{p.ID}, es.indexed)
	assert.Equal(t, 1, c.invalidated)

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "WID-1", Name: "Dup"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeDuplicateSKU, e.Code)
}

func TestCreateProduct_validation(t *testing.T) {
	uc, _, _ := newTestUseCase(nil)

	tests := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"missing sku", dto.CreateProductInput{Name: "x"}},
		{"missing name", dto.CreateProductInput{SKU: "x"}},
		{"negative price", dto.CreateProductInput{SKU: "x", Name: "x", Price: decimal.NewFromInt(-1)}},
		{"negative minimum", dto.CreateProductInput{SKU: "x", Name: "x", MinimumStock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateProduct(context.Background(), &tt.input)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestListProducts_cachesDatabaseResults(t *testing.T) {
	uc, repo, c := newTestUseCase(nil)
	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "A", Name: "A"})
	require.NoError(t, err)

	filters := &dto.ProductFilters{Page: 1, PageSize: 20}
	_, count, err := uc.ListProducts(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, _, err = uc.ListProducts(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAll, "second call is served from cache")

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "B", Name: "B"})
	require.NoError(t, err)
	assert.Empty(t, c.data, "writes invalidate cached lists")
}

func TestListProducts_searchFallsBackToDatabase(t *testing.T) {
	es := &stubSearch{err: errors.New("cluster red")}
	uc, repo, _ := newTestUseCase(es)

	_, _, err := uc.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "wid"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAll)

	es.err = nil
	es.hits = []model.Product{{BaseModel: model.BaseModel{ID: "p9"}, SKU: "WID-9", Price: decimal.NewFromInt(3)}}
	items, count, err := uc.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "wid", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, items, 1)
	assert.Equal(t, "WID-9", items[0].SKU)
	assert.Equal(t, 1, repo.findAll)
}

func TestSetArchived(t *testing.T) {
	uc, _, _ := newTestUseCase(nil)
	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "A", Name: "A"})
	require.NoError(t, err)

	got, err := uc.SetArchived(context.Background(), p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	_, err = uc.SetArchived(context.Background(), "missing", true)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteProduct_referenced(t *testing.T) {
	es := &stubSearch{}
	uc, repo, _ := newTestUseCase(es)
	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "A", Name: "A"})
	require.NoError(t, err)

	repo.deleteErr = &pgconn.PgError{Code: "23503"}
	err = uc.DeleteProduct(context.Background(), p.ID)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeStillReferenced, e.Code)

	repo.deleteErr = nil
	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID))
	assert.Equal(t, []string{p.ID}, es.deleted)
}
