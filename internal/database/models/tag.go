package models

// Tag is a global label. Slug is the case-folded name and is what uniqueness is checked on.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Nome string `gorm:"column:nome;uniqueIndex;not null" json:"nome"`
	Slug string `gorm:"column:slug;uniqueIndex;not null" json:"-"`
}

// TableName overrides the table name
func (Tag) TableName() string {
	return "tags"
}

// PostTag links a post to a tag. No payload beyond the key.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (PostTag) TableName() string {
	return "posts_tags"
}
