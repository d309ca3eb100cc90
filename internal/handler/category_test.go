package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate_RoleGating(t *testing.T) {
	r, db := newTestEnv(t)
	userTok := registerAndLogin(t, r, "reader@example.com")
	adminTok := adminToken(t, r, db, "admin@example.com")

	payload := gin.H{"name": "Science Fiction", "description": "the future and outer space"}

	// anonymous
	w := doJSON(r, http.MethodPost, "/api/categories", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// standard role
	w = doJSON(r, http.MethodPost, "/api/categories", payload, userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// administrator
	w = doJSON(r, http.MethodPost, "/api/categories", payload, adminTok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode(t, w)["category"].(map[string]interface{})
	assert.Equal(t, "Science Fiction", category["name"])
}

func TestCategoryCreate_DuplicateName(t *testing.T) {
	r, db := newTestEnv(t)
	adminTok := adminToken(t, r, db, "admin@example.com")

	w := doJSON(r, http.MethodPost, "/api/categories", gin.H{"name": "Fantasy"}, adminTok)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/categories", gin.H{"name": "Fantasy"}, adminTok)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestCategoryList_Public(t *testing.T) {
	r, db := newTestEnv(t)
	adminTok := adminToken(t, r, db, "admin@example.com")

	for _, name := range []string{"Mystery", "Fantasy"} {
		w := doJSON(r, http.MethodPost, "/api/categories", gin.H{"name": name}, adminTok)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]interface{})
	require.Len(t, categories, 2)
	// ordered by name
	assert.Equal(t, "Fantasy", categories[0].(map[string]interface{})["name"])
	assert.Equal(t, "Mystery", categories[1].(map[string]interface{})["name"])
}

func TestCategoryDelete_BlockedWhileReferenced(t *testing.T) {
	r, db := newTestEnv(t)
	adminTok := adminToken(t, r, db, "admin@example.com")

	w := doJSON(r, http.MethodPost, "/api/categories", gin.H{"name": "Non-Fiction"}, adminTok)
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := uint(decode(t, w)["category"].(map[string]interface{})["id"].(float64))

	book := seedBook(t, db, "Real Stories", "A. Author", &categoryID)

	path := fmt.Sprintf("/api/categories/%d", categoryID)
	w = doJSON(r, http.MethodDelete, path, nil, adminTok)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// once the book is gone the category can be deleted
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), nil, adminTok)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, path, nil, adminTok)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	r, db := newTestEnv(t)
	adminTok := adminToken(t, r, db, "admin@example.com")

	w := doJSON(r, http.MethodPut, "/api/categories/9999", gin.H{"name": "Ghost"}, adminTok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
