package entity

type Post struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title   string `gorm:"size:200"`
	Content string

	CommentsEnabled bool `gorm:"default:true"`
}

func (p *Post) Ref() ContentRef {
	return NewContentRef(KindPost, p.ID)
}
