package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and GetUserIDFromContext", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 100, "user@example.com", "customer")

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(100), id)

		require.NotNil(t, UserIDPtrFromContext(ctx))
		assert.Equal(t, int64(100), *UserIDPtrFromContext(ctx))

		assert.Equal(t, "user@example.com", GetUserEmailFromContext(ctx))
		assert.Equal(t, "customer", GetUserRoleFromContext(ctx))
	})

	t.Run("Anonymous", func(t *testing.T) {
		ctx := context.Background()

		_, ok := GetUserIDFromContext(ctx)
		assert.False(t, ok)
		assert.Nil(t, UserIDPtrFromContext(ctx))
		assert.Empty(t, GetUserRoleFromContext(ctx))
	})
}

func TestPtrHelpers(t *testing.T) {
	assert.Equal(t, "x", *StrPtr("x"))
	assert.Equal(t, "x", PtrString(StrPtr("x")))
	assert.Equal(t, "", PtrString(nil))
}

func TestParseInt64(t *testing.T) {
	n, err := ParseInt64("123")
	assert.NoError(t, err)
	assert.Equal(t, int64(123), n)

	_, err = ParseInt64("abc")
	assert.Error(t, err)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?skip=5&limit=abc", nil)

	n, err := QueryInt(r, "skip", 0)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = QueryInt(r, "missing", 100)
	assert.NoError(t, err)
	assert.Equal(t, 100, n)

	_, err = QueryInt(r, "limit", 100)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "error message", http.StatusBadRequest)

	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "error message", body["error"])
}
