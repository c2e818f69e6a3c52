package models

import (
	"time"
)

// NewsletterSubscription is one address signed up for the newsletter.
type NewsletterSubscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (NewsletterSubscription) TableName() string {
	return "newsletter"
}
