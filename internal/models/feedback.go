package models

import "time"

// Feedback is a rating and optional comment a user leaves on a product.
type Feedback struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:varchar(1000)"`
	CreatedAt time.Time `json:"created_at"`
}
