package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// FavoriteHandler serves the caller's favorites list. All routes require
// identity.
type FavoriteHandler struct {
	DB *gorm.DB
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{DB: db}
}

type favoriteReq struct {
	BookID uint `json:"book_id" binding:"required"`
}

// favoriteRow is a favorited book plus its aggregates.
type favoriteRow struct {
	models.Book
	AverageRating float64   `json:"average_rating"`
	FavoritedAt   time.Time `json:"favorited_at"`
}

// Add puts a book on the caller's favorites list.
func (h *FavoriteHandler) Add(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	var req favoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, apperr.Validation("book_id is required"))
		return
	}

	var bookCount int64
	if err := h.DB.Model(&models.Book{}).Where("id = ?", req.BookID).Count(&bookCount).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if bookCount == 0 {
		util.Fail(c, apperr.NotFound("book not found"))
		return
	}

	favorite := models.Favorite{UserID: ident.UserID, BookID: req.BookID}
	if err := h.DB.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, apperr.Conflict("book is already in favorites"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message":  "book added to favorites",
		"favorite": favorite,
	})
}

// Remove takes a book off the caller's favorites list.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	bookID, err := parseIDParam(c, "bookId")
	if err != nil {
		util.Fail(c, err)
		return
	}

	res := h.DB.Where("user_id = ? AND book_id = ?", ident.UserID, bookID).Delete(&models.Favorite{})
	if res.Error != nil {
		util.Fail(c, apperr.Storage(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, apperr.NotFound("favorite not found"))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "book removed from favorites"})
}

// List returns the caller's favorited books, most recently favorited first.
func (h *FavoriteHandler) List(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	var rows []favoriteRow
	if err := h.DB.Model(&models.Book{}).
		Select("books.*, COALESCE(AVG(ratings.rating), 0) AS average_rating, favorites.created_at AS favorited_at").
		Joins("JOIN favorites ON favorites.book_id = books.id").
		Joins("LEFT JOIN ratings ON ratings.book_id = books.id").
		Where("favorites.user_id = ?", ident.UserID).
		Group("books.id, favorites.created_at").
		Order("favorites.created_at DESC").
		Find(&rows).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if rows == nil {
		rows = []favoriteRow{}
	}

	util.Success(c, http.StatusOK, util.Response{"favorites": rows})
}

// Check reports whether a book is in the caller's favorites.
func (h *FavoriteHandler) Check(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	bookID, err := parseIDParam(c, "bookId")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var count int64
	if err := h.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND book_id = ?", ident.UserID, bookID).
		Count(&count).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"is_favorite": count > 0})
}
