package models

import (
	"time"
)

// Post is a blog article. Tags are loaded separately from posts_tags.
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Titulo    string    `gorm:"column:titulo;not null" json:"titulo"`
	Conteudo  string    `gorm:"column:conteudo;not null" json:"conteudo"`
	Data      time.Time `gorm:"column:data;autoCreateTime" json:"data"`
	Categoria string    `gorm:"column:categoria;index" json:"categoria"`
	Resumo    string    `gorm:"column:resumo" json:"resumo"`
	Imagem    string    `gorm:"column:imagem" json:"imagem"`

	Tags []string `gorm:"-" json:"tags"`
}

// TableName overrides the table name
func (Post) TableName() string {
	return "posts"
}
