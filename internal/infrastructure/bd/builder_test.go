package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/pkg/types"
)

var partMap = map[string]string{
	"name":              "p.name",
	"astral_variant_id": "p.astral_variant_id",
	"is_used":           "p.is_used",
}

func base() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("p.id").From("astral_parts p")
}

func TestApplyListParams_FiltersAndSort(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{
			"astral_variant_id": "1,2",
			"is_used":           "true",
			"password":          "x",
		},
		Sort:           map[string]string{"name": "desc", "unknown": "asc"},
		Limit:          20,
		Offset:         40,
		WithPagination: true,
	}

	query, args, err := ApplyListParams(base(), filter, partMap).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT p.id FROM astral_parts p WHERE p.astral_variant_id IN ($1,$2) AND p.is_used = $3 ORDER BY p.name DESC LIMIT 20 OFFSET 40",
		query)
	assert.Equal(t, []interface{}{"1", "2", "true"}, args)
}

func TestApplyListParams_WithoutPagination(t *testing.T) {
	filter := types.Filter{Limit: 20, Offset: 40, WithPagination: false}

	query, _, err := ApplyListParams(base(), filter, partMap).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM astral_parts p", query)
}

func TestForCount(t *testing.T) {
	filter := types.Filter{Sort: map[string]string{"name": "asc"}, Limit: 5, WithPagination: true}

	counted := ForCount(filter)

	assert.False(t, counted.WithPagination)
	assert.Nil(t, counted.Sort)
	assert.True(t, filter.WithPagination)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%SN-1%", ContainsPattern("SN-1"))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
	assert.Equal(t, `%C:\\dir%`, ContainsPattern(`C:\dir`))
}
