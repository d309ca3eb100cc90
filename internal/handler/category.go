package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// CategoryHandler serves the public category listing and the admin CRUD.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// List returns all categories ordered by name.
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	util.Success(c, http.StatusOK, util.Response{"categories": categories})
}

// Create adds a category. Admin only; names are unique.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		util.Fail(c, apperr.Validation("category name is required"))
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, apperr.Conflict("category with this name already exists"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message":  "category created successfully",
		"category": category,
	})
}

// Update renames a category. Admin only.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		util.Fail(c, apperr.Validation("category name is required"))
		return
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, apperr.NotFound("category not found"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	if err := h.DB.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, apperr.Conflict("category with this name already exists"))
		} else {
			util.Fail(c, apperr.Storage(err))
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message":  "category updated successfully",
		"category": category,
	})
}

// Delete removes a category. Admin only; refused while books still
// reference it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}

	var booksUsing int64
	if err := h.DB.Model(&models.Book{}).Where("category_id = ?", id).Count(&booksUsing).Error; err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	if booksUsing > 0 {
		util.Fail(c, apperr.Conflict("cannot delete category while books reference it"))
		return
	}

	res := h.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		util.Fail(c, apperr.Storage(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, apperr.NotFound("category not found"))
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "category deleted successfully"})
}
