package models

import (
	"time"
)

type Comment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PostID     uint      `gorm:"column:post_id;not null;index" json:"post_id"`
	AuthorName string    `gorm:"column:author_name" json:"author_name"`
	Text       string    `gorm:"column:text;not null" json:"text"`
	Date       time.Time `gorm:"column:date" json:"date"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name
func (Comment) TableName() string {
	return "comments"
}
