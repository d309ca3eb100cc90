package models

import "time"

// AuditLog records authenticated mutating requests (who did what, from where).
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Method    string    `gorm:"size:8;not null" json:"method"`
	Path      string    `gorm:"size:255;not null" json:"path"`
	Status    int       `json:"status"`
	IP        string    `gorm:"size:64" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
