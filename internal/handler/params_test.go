package handler

import (
	"errors"
	"net/url"
	"testing"

	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchRequest_Defaults(t *testing.T) {
	req, err := parseSearchRequest(url.Values{"query": {"cats"}})
	require.NoError(t, err)

	assert.Equal(t, domain.SearchRequest{Query: "cats", Page: 1, PerPage: 10}, req)
}

func TestParseSearchRequest_Bounds(t *testing.T) {
	req, err := parseSearchRequest(url.Values{"query": {"c"}, "page": {"7"}, "per_page": {"30"}})
	require.NoError(t, err)
	assert.Equal(t, 7, req.Page)
	assert.Equal(t, 30, req.PerPage)

	req, err = parseSearchRequest(url.Values{"query": {"c"}, "per_page": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, req.PerPage)
}

func TestParseSearchRequest_FailedFields(t *testing.T) {
	_, err := parseSearchRequest(url.Values{"page": {"x"}, "per_page": {"5"}})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.True(t, vErr.Has("query"))
	assert.True(t, vErr.Has("page"))
	assert.False(t, vErr.Has("per_page"))
}
