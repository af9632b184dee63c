package entity

type Pin struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title   string
	URL     string
	Content string

	CommentsEnabled bool `gorm:"default:true"`
}

func (p *Pin) Ref() ContentRef {
	return NewContentRef(KindPin, p.ID)
}
