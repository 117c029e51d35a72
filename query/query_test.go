package query

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/blogs", nil))

	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Empty(t, p.Q)
	assert.Empty(t, p.Tag)
	assert.Nil(t, p.Featured)
	assert.Nil(t, p.Published)
	assert.False(t, p.IncludeDrafts)
	assert.False(t, p.IncludeDeleted)
}

func TestParseValues(t *testing.T) {
	p := Parse(httptest.NewRequest("GET",
		"/blogs?q=%20hello%20&tag=GoLang&featured=true&published=false&includeDrafts=true&includeDeleted=true&page=3&limit=5", nil))

	assert.Equal(t, "hello", p.Q)
	assert.Equal(t, "golang", p.Tag)
	require.NotNil(t, p.Featured)
	assert.True(t, *p.Featured)
	require.NotNil(t, p.Published)
	assert.False(t, *p.Published)
	assert.True(t, p.IncludeDrafts)
	assert.True(t, p.IncludeDeleted)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 5, p.Limit)
}

func TestParseClampsPagination(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/blogs?page=0&limit=0", nil))
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = Parse(httptest.NewRequest("GET", "/blogs?page=-2&limit=9999", nil))
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = Parse(httptest.NewRequest("GET", "/blogs?page=abc&limit=abc", nil))
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParseIgnoresInvalidBools(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/blogs?featured=yes&includeDrafts=1", nil))
	assert.Nil(t, p.Featured)
	assert.False(t, p.IncludeDrafts)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 35)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, 4, meta.TotalPages)

	meta = NewMeta(Params{Page: 1, Limit: 10}, 30)
	assert.Equal(t, 3, meta.TotalPages)

	meta = NewMeta(Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
}
