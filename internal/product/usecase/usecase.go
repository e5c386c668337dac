package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	"github.com/fekuna/omnipos-warehouse-service/internal/product/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	indexName     = "products"
	listCacheTTL  = 5 * time.Minute
	listKeyPrefix = "products:list:"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"sku": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"price": { "type": "double" },
			"is_archived": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

// Cache is the slice of cache.RedisClient the catalog uses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Searcher is the slice of search.Client the catalog uses. A nil Searcher
// disables full-text search.
type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

type productUseCase struct {
	repo     product.Repository
	cache    Cache
	es       Searcher
	logger   logger.ZapLogger
	runAsync func(fn func())
}

func NewProductUseCase(repo product.Repository, cache Cache, es Searcher, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		cache:    cache,
		es:       es,
		logger:   log,
		runAsync: func(fn func()) { go fn() },
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validate(input.SKU, input.Name, input.Price, input.MinimumStock); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(input.SKU)
	if err := uc.ensureUniqueSKU(ctx, sku, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:          sku,
		Name:         strings.TrimSpace(input.Name),
		Description:  optional(input.Description),
		Price:        input.Price,
		MinimumStock: input.MinimumStock,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, mapWriteError(p.SKU, err)
	}

	uc.afterWrite(p)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", id)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	// 1. Cache
	cacheKey, err := generateCacheKey(filters)
	if err == nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var result cachedList
			if err := json.Unmarshal(data, &result); err == nil {
				return result.Products, result.Count, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
	}

	// 2. Search via Elastic when a query is present
	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	// 3. Database
	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := validate(input.SKU, input.Name, input.Price, input.MinimumStock); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	if p.SKU != sku {
		if err := uc.ensureUniqueSKU(ctx, sku, p.ID); err != nil {
			return nil, err
		}
	}

	p.SKU = sku
	p.Name = strings.TrimSpace(input.Name)
	p.Description = optional(input.Description)
	p.Price = input.Price
	p.MinimumStock = input.MinimumStock
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, mapWriteError(p.SKU, err)
	}

	uc.afterWrite(p)
	return p, nil
}

func (uc *productUseCase) SetArchived(ctx context.Context, id string, archived bool) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsArchived == archived {
		return p, nil
	}

	if err := uc.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	p.IsArchived = archived
	p.UpdatedAt = time.Now()

	uc.afterWrite(p)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.StillReferenced("product", err)
		}
		return err
	}

	uc.runAsync(func() {
		ctx := context.Background()
		uc.invalidateListCache(ctx)
		if uc.es == nil {
			return
		}
		if err := uc.es.Delete(ctx, indexName, id); err != nil {
			uc.logger.Error("failed to delete product from ES", zap.Error(err))
		}
	})
	return nil
}

func (uc *productUseCase) afterWrite(p *model.Product) {
	doc := *p
	uc.runAsync(func() {
		ctx := context.Background()
		uc.invalidateListCache(ctx)
		uc.syncToElastic(ctx, &doc)
	})
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure products index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{{
		"query_string": map[string]interface{}{
			"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
			"fields": []string{"name^3", "sku", "description"},
		},
	}}
	if filters.IsArchived != nil {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"is_archived": *filters.IsArchived},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		q["from"] = (max(filters.Page, 1) - 1) * filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping malformed search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if err := uc.cache.DeleteByPattern(ctx, listKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) ensureUniqueSKU(ctx context.Context, sku, excludeID string) error {
	unique, err := uc.repo.IsSKUUnique(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return duplicateSKU(sku)
	}
	return nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listKeyPrefix, md5.Sum(data)), nil
}

func validate(sku, name string, price decimal.Decimal, minimumStock int) error {
	switch {
	case strings.TrimSpace(sku) == "":
		return apperr.Required("sku")
	case strings.TrimSpace(name) == "":
		return apperr.Required("name")
	case price.IsNegative():
		return apperr.Invalid("price")
	case minimumStock < 0:
		return apperr.Invalid("minimum_stock")
	}
	return nil
}

func mapWriteError(sku string, err error) error {
	if postgres.IsUniqueViolation(err) {
		return duplicateSKU(sku)
	}
	return fmt.Errorf("save product: %w", err)
}

func duplicateSKU(sku string) error {
	return apperr.Conflict(apperr.CodeDuplicateSKU, map[string]interface{}{"SKU": sku}, "SKU %s already exists", sku)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
