package models

import "time"

// Rating is one user's 1-5 score for a book. One rating per (user, book).
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_ratings_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_ratings_user_book;not null" json:"book_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
