package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/config"
	"github.com/bkoncius/Book-recommendation-app/internal/database"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/router"
)

const (
	testSecret   = "handler-test-secret"
	testPassword = "Abc123$x"
)

// newTestEnv builds a full router backed by a fresh in-memory database.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: testSecret, Issuer: "test", ExpireMinutes: 15},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + t.Name() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return router.SetupRouter(cfg, db, zerolog.Nop()), db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates a user and returns their session token.
func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
		"email":    email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return login(t, r, email)
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok, "login response should carry a token")
	return token
}

// adminToken registers a user, promotes them out-of-band and logs in again
// so the token reflects the admin role.
func adminToken(t *testing.T, r *gin.Engine, db *gorm.DB, email string) string {
	t.Helper()

	registerAndLogin(t, r, email)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", email).
		Update("role", models.RoleAdmin).Error)

	return login(t, r, email)
}

// seedBook inserts a book directly.
func seedBook(t *testing.T, db *gorm.DB, title, author string, categoryID *uint) models.Book {
	t.Helper()
	book := models.Book{Title: title, Author: author, CategoryID: categoryID}
	require.NoError(t, db.Create(&book).Error)
	return book
}
