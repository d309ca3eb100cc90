package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// RatingHandler serves per-user book ratings and the public aggregate stats.
type RatingHandler struct {
	DB *gorm.DB
}

func NewRatingHandler(db *gorm.DB) *RatingHandler {
	return &RatingHandler{DB: db}
}

type ratingReq struct {
	Rating int `json:"rating" binding:"required"`
}

// Upsert creates or replaces the caller's rating for a book. The composite
// (user_id, book_id) unique index makes the upsert race-safe.
func (h *RatingHandler) Upsert(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	bookID, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req ratingReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		util.Fail(c, apperr.Validation("rating must be an integer between 1 and 5"))
		return
	}

	var bookCount int64
	if err := h.DB.Model(&models.Book{}).Where("id = ?", bookID).Count(&bookCount).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if bookCount == 0 {
		util.Fail(c, apperr.NotFound("book not found"))
		return
	}

	rating := models.Rating{
		UserID: ident.UserID,
		BookID: bookID,
		Rating: req.Rating,
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&rating).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	// on the conflict path the in-memory struct keeps a stale ID and
	// CreatedAt; reload the row before echoing it
	if err := h.DB.Where("user_id = ? AND book_id = ?", ident.UserID, bookID).First(&rating).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "rating saved successfully",
		"rating":  rating,
	})
}

// GetMine returns the caller's rating for a book, or null when unrated.
func (h *RatingHandler) GetMine(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	bookID, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var rating models.Rating
	if err := h.DB.Where("user_id = ? AND book_id = ?", ident.UserID, bookID).First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Success(c, http.StatusOK, util.Response{"rating": nil})
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{"rating": rating})
}

// Stats returns the aggregate rating for a book. Public.
func (h *RatingHandler) Stats(c *gin.Context) {
	bookID, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var stats struct {
		AverageRating float64
		TotalRatings  int64
	}
	if err := h.DB.Model(&models.Rating{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_ratings").
		Scan(&stats).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"average_rating": stats.AverageRating,
		"total_ratings":  stats.TotalRatings,
	})
}

// Delete removes the caller's rating for a book.
func (h *RatingHandler) Delete(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Fail(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	bookID, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	res := h.DB.Where("user_id = ? AND book_id = ?", ident.UserID, bookID).Delete(&models.Rating{})
	if res.Error != nil {
		util.Fail(c, apperr.Storage(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, apperr.NotFound("rating not found"))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "rating deleted successfully"})
}
