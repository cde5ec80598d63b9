package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/search"
)

const productIndex = "products"

const productMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"category_id": { "type": "long" },
			"selling_price": { "type": "scaled_float", "scaling_factor": 100 },
			"unit": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type ESRepository struct {
	es        *search.Client
	indexOnce sync.Once
}

func NewESRepository(es *search.Client) *ESRepository {
	return &ESRepository{es: es}
}

func (r *ESRepository) IndexProduct(ctx context.Context, p *model.Product) error {
	r.indexOnce.Do(func() {
		_ = r.es.CreateIndex(ctx, productIndex, productMapping)
	})
	return r.es.Index(ctx, productIndex, strconv.FormatInt(p.ID, 10), p)
}

// SearchProducts returns matching product ids in relevance order with the
// total hit count.
func (r *ESRepository) SearchProducts(ctx context.Context, f *dto.ProductFilters) ([]int64, int, error) {
	q := productSearchQuery(f)

	res, err := r.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, res.Hits.Total.Value, nil
}

// productSearchQuery matches the text against names and descriptions as
// prefixes, and against SKUs case-insensitively. User text is never parsed
// as query syntax.
func productSearchQuery(f *dto.ProductFilters) map[string]any {
	text := strings.TrimSpace(f.SearchQuery)
	must := []map[string]any{
		{
			"bool": map[string]any{
				"should": []map[string]any{
					{"multi_match": map[string]any{
						"query":    text,
						"type":     "bool_prefix",
						"fields":   []string{"name^3", "description"},
						"operator": "and",
					}},
					{"prefix": map[string]any{
						"sku": map[string]any{"value": text, "case_insensitive": true},
					}},
				},
				"minimum_should_match": 1,
			},
		},
	}
	filter := []map[string]any{}
	if f.CategoryID != nil {
		filter = append(filter, map[string]any{"term": map[string]any{"category_id": *f.CategoryID}})
	}
	if f.IsActive != nil {
		filter = append(filter, map[string]any{"term": map[string]any{"is_active": *f.IsActive}})
	}

	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
		"_source": false,
	}
	if f.PageSize > 0 {
		q["from"] = (max(f.Page, 1) - 1) * f.PageSize
		q["size"] = f.PageSize
	}
	return q
}
