package params

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"betlearning/learning"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathInt64(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/predictions/12", nil), map[string]string{"id": "12"})
	id, err := PathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/predictions/x", nil), map[string]string{"id": "x"})
	_, err = PathInt64(req, "id")
	assert.ErrorIs(t, err, learning.ErrValidation)
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/list?limit=10&fixture_id=5&verified=YES&active=no&type=+corners+&bad=x", nil)

	limit, err := Int(req, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 10, limit)

	offset, err := Int(req, "offset", 0)
	require.NoError(t, err)
	assert.Zero(t, offset)

	_, err = Int(req, "bad", 0)
	assert.ErrorIs(t, err, learning.ErrValidation)

	fixture, err := OptionalInt64(req, "fixture_id")
	require.NoError(t, err)
	assert.Equal(t, int64(5), *fixture)

	missing, err := OptionalInt64(req, "league_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = OptionalInt64(req, "bad")
	assert.ErrorIs(t, err, learning.ErrValidation)

	assert.Equal(t, "corners", *OptionalString(req, "type"))
	assert.Nil(t, OptionalString(req, "missing"))

	assert.True(t, *OptionalBool(req, "verified"))
	assert.False(t, *OptionalBool(req, "active"))
	assert.Nil(t, OptionalBool(req, "missing"))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": "corners"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "corners", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(httptest.NewRecorder(), req, &dst)
	assert.ErrorIs(t, err, learning.ErrValidation)
	assert.Contains(t, err.Error(), "request body required")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &dst), learning.ErrValidation)
}
