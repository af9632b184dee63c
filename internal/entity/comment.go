package entity

// Comment hangs off any content kind. The anchor is a short token unique
// within one parent, used for deep links.
type Comment struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content string

	ParentKind     ContentKind `gorm:"size:32;uniqueIndex:idx_comments_parent_anchor"`
	ParentObjectID int64       `gorm:"uniqueIndex:idx_comments_parent_anchor"`

	Anchor string `gorm:"size:4;uniqueIndex:idx_comments_parent_anchor"`
}

func (c *Comment) ParentRef() ContentRef {
	return NewContentRef(c.ParentKind, c.ParentObjectID)
}
