package entity

import "database/sql"

// Repost wraps either another user's Activity or another Repost. The
// wrapped content is additionally referenced directly so it survives the
// wrapped activity being cleaned up first.
type Repost struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content string

	OriginalActivityID sql.NullInt64
	OriginalActivity   *Activity `gorm:"foreignKey:OriginalActivityID"`

	OriginalRepostID sql.NullInt64
	OriginalRepost   *Repost `gorm:"foreignKey:OriginalRepostID"`

	// Original is the wrapped content itself.
	Original ContentRef `gorm:"embedded;embeddedPrefix:original_"`

	CommentsEnabled bool `gorm:"default:true"`
}

func (r *Repost) Ref() ContentRef {
	return NewContentRef(KindRepost, r.ID)
}
