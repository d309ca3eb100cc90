package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

// ExportHandler exports the book catalog for offline use. Admin only.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

type exportRow struct {
	models.Book
	CategoryName *string
}

func (h *ExportHandler) catalog() ([]exportRow, error) {
	var rows []exportRow
	err := h.DB.Model(&models.Book{}).
		Select("books.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Order("books.title ASC").
		Find(&rows).Error
	return rows, err
}

var exportHeaders = []string{"Title", "Author", "Category", "ISBN", "Pages", "Published", "Description"}

func exportFields(r *exportRow) []string {
	category := ""
	if r.CategoryName != nil {
		category = *r.CategoryName
	}
	pages := ""
	if r.Pages != nil {
		pages = strconv.Itoa(*r.Pages)
	}
	published := ""
	if r.PublishedDate != nil {
		published = r.PublishedDate.Format("2006-01-02")
	}
	return []string{r.Title, r.Author, category, r.ISBN, pages, published, r.Description}
}

// CSV exports the catalog as CSV.
func (h *ExportHandler) CSV(c *gin.Context) {
	rows, err := h.catalog()
	if err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"books_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so spreadsheet tools detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)
	for i := range rows {
		writer.Write(exportFields(&rows[i]))
	}
}

// XLSX exports the catalog as an Excel workbook.
func (h *ExportHandler) XLSX(c *gin.Context) {
	rows, err := h.catalog()
	if err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}

	f := excelize.NewFile()
	sheetName := "Books"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Fail(c, apperr.Storage(err))
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range rows {
		row := idx + 2
		for col, value := range exportFields(&rows[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 25)
	f.SetColWidth(sheetName, "C", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"books_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Fail(c, apperr.Storage(err))
	}
}
