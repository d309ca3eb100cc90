package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// BookHandler serves the public catalog and the admin book CRUD.
type BookHandler struct {
	DB *gorm.DB
}

func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{DB: db}
}

// bookRow is a catalog listing entry: the book plus joined aggregates.
type bookRow struct {
	models.Book
	CategoryName  *string `json:"category_name"`
	AverageRating float64 `json:"average_rating"`
}

type bookReq struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	CategoryID    *uint  `json:"category_id"`
	CoverImageURL string `json:"cover_image_url"`
	ISBN          string `json:"isbn"`
	Pages         *int   `json:"pages"`
	PublishedDate string `json:"published_date"`
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// List returns the catalog, optionally filtered by category_id and a
// case-insensitive search over title, author and description.
func (h *BookHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.Book{}).
		Select("books.*, categories.name AS category_name, COALESCE(AVG(ratings.rating), 0) AS average_rating").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Joins("LEFT JOIN ratings ON ratings.book_id = books.id").
		Group("books.id, categories.name")

	if cid := c.Query("category_id"); cid != "" {
		q = q.Where("books.category_id = ?", cid)
	}
	if search := c.Query("search"); search != "" {
		s := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ? OR LOWER(books.description) LIKE ?", s, s, s)
	}

	var rows []bookRow
	if err := q.Order("books.created_at DESC").Find(&rows).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if rows == nil {
		rows = []bookRow{}
	}

	util.Success(c, http.StatusOK, util.Response{
		"books": rows,
		"count": len(rows),
	})
}

// Get returns one book with rating stats and comment count. When the
// request carries a valid identity the response also says whether the book
// is in the caller's favorites.
func (h *BookHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, apperr.NotFound("book not found"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	var categoryName *string
	if book.CategoryID != nil {
		var category models.Category
		if err := h.DB.First(&category, *book.CategoryID).Error; err == nil {
			categoryName = &category.Name
		}
	}

	var stats struct {
		AverageRating float64
		TotalRatings  int64
	}
	if err := h.DB.Model(&models.Rating{}).
		Where("book_id = ?", book.ID).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_ratings").
		Scan(&stats).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	var totalComments int64
	if err := h.DB.Model(&models.Comment{}).Where("book_id = ?", book.ID).Count(&totalComments).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	resp := util.Response{
		"book":           book,
		"category_name":  categoryName,
		"average_rating": stats.AverageRating,
		"total_ratings":  stats.TotalRatings,
		"total_comments": totalComments,
	}

	// personalize for a resolved identity; anonymous callers get the
	// generic payload
	if ident, ok := middleware.CurrentIdentity(c); ok {
		var favCount int64
		if err := h.DB.Model(&models.Favorite{}).
			Where("user_id = ? AND book_id = ?", ident.UserID, book.ID).
			Count(&favCount).Error; err != nil {
			util.Fail(c, apperr.Storage(err))
			return
		}
		resp["is_favorite"] = favCount > 0
	}

	util.Success(c, http.StatusOK, resp)
}

// applyBookReq copies validated request fields onto the model.
func (h *BookHandler) applyBookReq(book *models.Book, req *bookReq) error {
	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}
		if count == 0 {
			return apperr.Validation("category not found")
		}
	}

	var publishedDate *time.Time
	if req.PublishedDate != "" {
		t, err := util.ValidateDate(req.PublishedDate)
		if err != nil {
			return apperr.Validation(err.Error())
		}
		publishedDate = &t
	}

	book.Title = strings.TrimSpace(req.Title)
	book.Author = strings.TrimSpace(req.Author)
	book.Description = req.Description
	book.CategoryID = req.CategoryID
	book.CoverImageURL = req.CoverImageURL
	book.ISBN = req.ISBN
	book.Pages = req.Pages
	book.PublishedDate = publishedDate
	return nil
}

// Create adds a book to the catalog. Admin only.
func (h *BookHandler) Create(c *gin.Context) {
	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, apperr.Validation("book title is required"))
		return
	}

	var book models.Book
	if err := h.applyBookReq(&book, &req); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.DB.Create(&book).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "book created successfully",
		"book":    book,
	})
}

// Update replaces a book's fields. Admin only.
func (h *BookHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, apperr.Validation("book title is required"))
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, apperr.NotFound("book not found"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	if err := h.applyBookReq(&book, &req); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.DB.Save(&book).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "book updated successfully",
		"book":    book,
	})
}

// Delete removes a book; ratings, comments and favorites cascade. Admin only.
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	res := h.DB.Delete(&models.Book{}, id)
	if res.Error != nil {
		util.Fail(c, apperr.Storage(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, apperr.NotFound("book not found"))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "book deleted successfully"})
}
