package entity

const (
	Upvote   = 1
	Downvote = -1
)

// Vote is one user's ±1 on a piece of content, unique per (user, subject).
type Vote struct {
	NumericBase

	UserID string `gorm:"uniqueIndex:idx_votes_user_subject"`
	User   User   `gorm:"foreignKey:UserID"`

	Kind     ContentKind `gorm:"size:32;uniqueIndex:idx_votes_user_subject"`
	ObjectID int64       `gorm:"uniqueIndex:idx_votes_user_subject"`

	Value int
}

func (v *Vote) Ref() ContentRef {
	return NewContentRef(v.Kind, v.ObjectID)
}
