package util

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bkoncius/Book-recommendation-app/internal/models"
)

const testSecret = "unit-test-secret"

func testUser() *models.User {
	return &models.User{ID: 42, Email: "reader@example.com", Role: models.RoleUser}
}

func TestGenerateAndParseToken(t *testing.T) {
	user := testUser()
	ttl := 15 * time.Minute

	tokenStr, err := GenerateToken(testSecret, "test-issuer", user, ttl)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(testSecret, tokenStr)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("user id = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", claims.Role, models.RoleUser)
	}
	if claims.ID == "" {
		t.Error("jti should be set")
	}
	if claims.ExpiresAt == nil {
		t.Fatal("exp should be set")
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 || remaining > ttl {
		t.Errorf("unexpected remaining lifetime %v", remaining)
	}
}

func TestParseToken_Expired(t *testing.T) {
	// build an already-expired token directly; GenerateToken refuses
	// non-positive TTLs
	now := time.Now()
	claims := &Claims{
		UserID: 42,
		Email:  "reader@example.com",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = ParseToken(testSecret, tokenStr)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenStr, err := GenerateToken(testSecret, "test-issuer", testUser(), time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = ParseToken("a-different-secret", tokenStr)
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("error = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	_, err := ParseToken(testSecret, "definitely.not.a-token")
	if !errors.Is(err, jwt.ErrTokenMalformed) {
		t.Errorf("error = %v, want ErrTokenMalformed", err)
	}
}
