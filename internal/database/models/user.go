package models

import (
	"time"
)

// User is an author account allowed into the admin area.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Nome      string    `gorm:"column:nome;not null" json:"nome"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Senha     string    `gorm:"column:senha;not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "usuarios"
}
