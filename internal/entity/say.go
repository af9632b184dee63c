package entity

// Say is a short feed message. A say whose body starts with "@" is a
// direct mention: only the author and the mentioned users may see it.
type Say struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content string

	CommentsEnabled bool `gorm:"default:true"`

	IsDirectMention bool
}

func (s *Say) Ref() ContentRef {
	return NewContentRef(KindSay, s.ID)
}

// SayAudience is the visible_to set of a direct-mention say.
type SayAudience struct {
	NumericBase

	SayID int64 `gorm:"uniqueIndex:idx_say_audiences_pair"`
	Say   Say   `gorm:"foreignKey:SayID"`

	UserID string `gorm:"uniqueIndex:idx_say_audiences_pair"`
	User   User   `gorm:"foreignKey:UserID"`
}
