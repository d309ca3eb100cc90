package models

import "time"

// Favorite marks a book as favorited by a user. One row per (user, book).
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
