package models

import "time"

// Book represents a catalog entry. Deleting a category keeps its books
// (category_id becomes NULL); deleting a book cascades to its ratings,
// comments and favorites.
type Book struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Author        string     `gorm:"size:255" json:"author"`
	Description   string     `gorm:"type:text" json:"description"`
	CategoryID    *uint      `gorm:"index" json:"category_id"`
	CoverImageURL string     `gorm:"size:255" json:"cover_image_url"`
	ISBN          string     `gorm:"size:32" json:"isbn"`
	Pages         *int       `json:"pages"`
	PublishedDate *time.Time `json:"published_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
