package entity

type Tag struct {
	NumericBase
	Name string `gorm:"unique;size:50"`
}

// ContentTag associates a tag with one piece of content. The set for a
// content ref is replaced wholesale whenever its body is re-extracted.
type ContentTag struct {
	NumericBase

	TagID int64 `gorm:"uniqueIndex:idx_content_tags_triple"`
	Tag   Tag   `gorm:"foreignKey:TagID"`

	Kind     ContentKind `gorm:"size:32;uniqueIndex:idx_content_tags_triple"`
	ObjectID int64       `gorm:"uniqueIndex:idx_content_tags_triple"`
}

func (t *ContentTag) Ref() ContentRef {
	return NewContentRef(t.Kind, t.ObjectID)
}
