package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_UpsertAndStats(t *testing.T) {
	r, db := newTestEnv(t)
	alice := registerAndLogin(t, r, "alice@example.com")
	bob := registerAndLogin(t, r, "bob@example.com")

	book := seedBook(t, db, "Dune", "Frank Herbert", nil)
	ratePath := fmt.Sprintf("/api/books/%d/ratings", book.ID)

	// anonymous rating is rejected
	w := doJSON(r, http.MethodPost, ratePath, gin.H{"rating": 5}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// out-of-range rating is rejected
	w = doJSON(r, http.MethodPost, ratePath, gin.H{"rating": 6}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// two users rate, one of them twice; the upsert keeps one row per user
	w = doJSON(r, http.MethodPost, ratePath, gin.H{"rating": 2}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)["rating"].(map[string]interface{})
	assert.NotZero(t, first["id"])

	w = doJSON(r, http.MethodPost, ratePath, gin.H{"rating": 4}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	replaced := decode(t, w)["rating"].(map[string]interface{})
	assert.Equal(t, first["id"], replaced["id"], "replacing a rating must echo the same row")
	assert.Equal(t, float64(4), replaced["rating"])

	w = doJSON(r, http.MethodPost, ratePath, gin.H{"rating": 2}, bob)
	require.Equal(t, http.StatusOK, w.Code)

	// public stats reflect alice's replacement, not her first rating
	w = doJSON(r, http.MethodGet, ratePath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.Equal(t, float64(2), stats["total_ratings"])
	assert.InDelta(t, 3.0, stats["average_rating"].(float64), 0.001)

	// own rating probe
	w = doJSON(r, http.MethodGet, ratePath+"/me", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode(t, w)["rating"].(map[string]interface{})
	assert.Equal(t, float64(4), mine["rating"])

	// delete and verify it is gone
	w = doJSON(r, http.MethodDelete, ratePath, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, ratePath+"/me", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["rating"])
}

func TestFavorites_Flow(t *testing.T) {
	r, db := newTestEnv(t)
	token := registerAndLogin(t, r, "reader@example.com")

	book := seedBook(t, db, "Dune", "Frank Herbert", nil)
	checkPath := fmt.Sprintf("/api/favorites/check/%d", book.ID)

	w := doJSON(r, http.MethodGet, checkPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_favorite"])

	w = doJSON(r, http.MethodPost, "/api/favorites", gin.H{"book_id": book.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// adding twice conflicts
	w = doJSON(r, http.MethodPost, "/api/favorites", gin.H{"book_id": book.ID}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodGet, checkPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_favorite"])

	w = doJSON(r, http.MethodGet, "/api/favorites", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	favorites := decode(t, w)["favorites"].([]interface{})
	require.Len(t, favorites, 1)
	assert.Equal(t, "Dune", favorites[0].(map[string]interface{})["title"])

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", book.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, checkPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_favorite"])
}

func TestFavorites_UnknownBook(t *testing.T) {
	r, _ := newTestEnv(t)
	token := registerAndLogin(t, r, "reader@example.com")

	w := doJSON(r, http.MethodPost, "/api/favorites", gin.H{"book_id": 9999}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComments_OwnershipEnforced(t *testing.T) {
	r, db := newTestEnv(t)
	alice := registerAndLogin(t, r, "alice@example.com")
	bob := registerAndLogin(t, r, "bob@example.com")

	book := seedBook(t, db, "Dune", "Frank Herbert", nil)
	commentsPath := fmt.Sprintf("/api/books/%d/comments", book.ID)

	w := doJSON(r, http.MethodPost, commentsPath, gin.H{"content": "a masterpiece"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := uint(decode(t, w)["comment"].(map[string]interface{})["id"].(float64))

	// public listing carries the author email
	w = doJSON(r, http.MethodGet, commentsPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "alice@example.com", comments[0].(map[string]interface{})["email"])

	commentPath := fmt.Sprintf("/api/comments/%d", commentID)

	// bob cannot touch alice's comment
	w = doJSON(r, http.MethodPut, commentPath, gin.H{"content": "hijacked"}, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(r, http.MethodDelete, commentPath, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// alice can
	w = doJSON(r, http.MethodPut, commentPath, gin.H{"content": "a flawed masterpiece"}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, commentPath, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, commentsPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["comments"])
}

func TestComments_EmptyContentRejected(t *testing.T) {
	r, db := newTestEnv(t)
	token := registerAndLogin(t, r, "reader@example.com")

	book := seedBook(t, db, "Dune", "Frank Herbert", nil)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/books/%d/comments", book.ID), gin.H{"content": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
