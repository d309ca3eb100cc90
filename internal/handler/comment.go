package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// CommentHandler serves book comments. Reading is public, writing requires
// identity and only the author may edit or delete a comment.
type CommentHandler struct {
	DB *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{DB: db}
}

type commentReq struct {
	Content string `json:"content" binding:"required"`
}

// commentRow joins the author's email onto the comment.
type commentRow struct {
	models.Comment
	Email string `json:"email"`
}

// List returns a book's comments, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	bookID, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var rows []commentRow
	if err := h.DB.Model(&models.Comment{}).
		Select("comments.*, users.email AS email").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.book_id = ?", bookID).
		Order("comments.created_at DESC").
		Find(&rows).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if rows == nil {
		rows = []commentRow{}
	}

	util.Success(c, http.StatusOK, util.Response{"comments": rows})
}

// Create adds a comment to a book.
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		util.Fail(c, apperr.Validation("comment content is required"))
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

	comment := models.Comment{
		UserID:  ident.UserID,
		BookID:  bookID,
		Content: strings.TrimSpace(req.Content),
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "comment added successfully",
		"comment": comment,
	})
}

// findOwnComment loads a comment and checks the caller owns it.
func (h *CommentHandler) findOwnComment(c *gin.Context) (*models.Comment, error) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	if err := h.DB.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Storage(err)
	}

	if comment.UserID != ident.UserID {
		return nil, apperr.Forbidden("you can only modify your own comments")
	}
	return &comment, nil
}

// Update edits the caller's own comment.
func (h *CommentHandler) Update(c *gin.Context) {
	comment, err := h.findOwnComment(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		util.Fail(c, apperr.Validation("comment content is required"))
		return
	}

	comment.Content = strings.TrimSpace(req.Content)
	if err := h.DB.Save(comment).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "comment updated successfully",
		"comment": comment,
	})
}

// Delete removes the caller's own comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, err := h.findOwnComment(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.DB.Delete(comment).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "comment deleted successfully"})
}
