package repository

import (
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchBody struct {
	Query struct {
		Bool struct {
			Must []struct {
				Bool struct {
					Should []struct {
						MultiMatch *struct {
							Query string `json:"query"`
						} `json:"multi_match"`
						Prefix *struct {
							SKU struct {
								Value string `json:"value"`
							} `json:"sku"`
						} `json:"prefix"`
					} `json:"should"`
				} `json:"bool"`
			} `json:"must"`
			Filter []map[string]any `json:"filter"`
		} `json:"bool"`
	} `json:"query"`
	From int `json:"from"`
	Size int `json:"size"`
}

func TestProductSearchQueryTreatsTextLiterally(t *testing.T) {
	category := int64(4)
	raw, err := json.Marshal(productSearchQuery(&dto.ProductFilters{
		SearchQuery: `  teh "botol: 1/2 `,
		CategoryID:  &category,
		Page:        3,
		PageSize:    20,
	}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "query_string")

	var body searchBody
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Query.Bool.Must, 1)
	should := body.Query.Bool.Must[0].Bool.Should
	require.Len(t, should, 2)
	require.NotNil(t, should[0].MultiMatch)
	assert.Equal(t, `teh "botol: 1/2`, should[0].MultiMatch.Query)
	require.NotNil(t, should[1].Prefix)
	assert.Equal(t, `teh "botol: 1/2`, should[1].Prefix.SKU.Value)

	assert.Len(t, body.Query.Bool.Filter, 1)
	assert.Equal(t, 40, body.From)
	assert.Equal(t, 20, body.Size)
}

func TestProductSearchQueryWithoutPaging(t *testing.T) {
	q := productSearchQuery(&dto.ProductFilters{SearchQuery: "kopi"})

	assert.NotContains(t, q, "from")
	assert.NotContains(t, q, "size")
}
