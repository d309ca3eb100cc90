package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/config"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// dummyHash is burned on unknown-email logins so both InvalidCredentials
// paths cost one bcrypt comparison.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthHandler serves registration, login, logout and the who-am-I probe.
type AuthHandler struct {
	DB           *gorm.DB
	JWTSecret    string
	Issuer       string
	TokenTTL     time.Duration
	BcryptCost   int
	CookieSecure bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	ttlMinutes := cfg.JWT.ExpireMinutes
	if ttlMinutes <= 0 {
		ttlMinutes = 15
	}
	return &AuthHandler{
		DB:           db,
		JWTSecret:    cfg.JWT.Secret,
		Issuer:       cfg.JWT.Issuer,
		TokenTTL:     time.Duration(ttlMinutes) * time.Minute,
		BcryptCost:   cfg.Security.BcryptCost,
		CookieSecure: cfg.Security.CookieSecure,
	}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// publicUser is the identity projection returned to clients. Never the hash.
func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

// Register creates the identity and its credential as one atomic unit.
// Email uniqueness is ultimately arbitrated by the database constraint, so
// two concurrent registrations yield exactly one success.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, apperr.Validation("email and password are required"))
		return
	}

	email := util.NormalizeEmail(req.Email)
	if err := util.ValidateEmail(email); err != nil {
		util.Fail(c, apperr.Validation(err.Error()))
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Fail(c, apperr.Validation(err.Error()))
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	user := models.User{Email: email, Role: models.RoleUser}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Credential{UserID: user.ID, PasswordHash: hash}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, apperr.DuplicateEmail())
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "user registered successfully",
		"user":    publicUser(&user),
	})
}

// Login verifies credentials, issues a session token and attaches it to the
// response cookie. Unknown email and wrong password are indistinguishable.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, apperr.Validation("email and password are required"))
		return
	}

	email := util.NormalizeEmail(req.Email)

	var user models.User
	err := h.DB.Preload("Credential").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CheckPassword(req.Password, dummyHash)
			util.Fail(c, apperr.InvalidCredentials())
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	if user.Credential == nil || !util.CheckPassword(req.Password, user.Credential.PasswordHash) {
		util.Fail(c, apperr.InvalidCredentials())
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, &user, h.TokenTTL)
	if err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.SetAuthCookie(c, token, h.TokenTTL, h.CookieSecure)
	util.Success(c, http.StatusOK, util.Response{
		"message": "login successful",
		"token":   token,
		"user":    publicUser(&user),
	})
}

// Logout clears the cookie carrier. The token itself remains valid until
// its exp claim; sessions are stateless and there is no revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	util.ClearAuthCookie(c, h.CookieSecure)
	util.Success(c, http.StatusOK, util.Response{"message": "logged out"})
}

// Me returns the caller's identity, or a null user for anonymous requests.
// Mounted behind OptionalAuth so a stale token degrades to anonymous.
func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Success(c, http.StatusOK, util.Response{"user": nil})
		return
	}
	util.Success(c, http.StatusOK, util.Response{
		"user": gin.H{
			"id":    ident.UserID,
			"email": ident.Email,
			"role":  ident.Role,
		},
	})
}
