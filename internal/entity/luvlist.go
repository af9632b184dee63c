package entity

import (
	"database/sql"
)

// LuvList is an ordered, heterogeneous collection of content references.
type LuvList struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title  string `gorm:"size:100"`
	Notes  string
	Source string
}

func (l *LuvList) Ref() ContentRef {
	return NewContentRef("", l.ID)
}

type ContentInList struct {
	NumericBase

	LuvListID int64   `gorm:"index"`
	LuvList   LuvList `gorm:"foreignKey:LuvListID"`

	Order int

	Item ContentRef `gorm:"embedded;embeddedPrefix:item_"`

	Comment string
}

// Randomizer persists the daily pick state of one (list, user) pair; the
// user side is null for the public randomizer. Order holds the remaining
// permutation of ContentInList ids, front first.
type Randomizer struct {
	NumericBase

	LuvListID int64   `gorm:"uniqueIndex:idx_randomizers_list_user"`
	LuvList   LuvList `gorm:"foreignKey:LuvListID"`

	UserID sql.NullString `gorm:"uniqueIndex:idx_randomizers_list_user"`
	User   *User          `gorm:"foreignKey:UserID"`

	Order Array[int64] `gorm:"column:randomized_order;type:text"`

	LastItemID sql.NullInt64
	LastItem   *ContentInList `gorm:"foreignKey:LastItemID"`

	LastGeneratedAt sql.NullTime
}
