package entity

import "github.com/luvlist-lab/backend/pkg/enum"

// ActivityType labels feed entries. Content-backed activities reuse the
// content kind string; "follow" is the only non-content type.
type ActivityType string

var (
	ActivityPost          = enum.New(ActivityType(KindPost))
	ActivitySay           = enum.New(ActivityType(KindSay))
	ActivityPin           = enum.New(ActivityType(KindPin))
	ActivityRepost        = enum.New(ActivityType(KindRepost))
	ActivityFollow        = enum.New(ActivityType("follow"))
	ActivityReadCheckin   = enum.New(ActivityType(KindReadCheckin))
	ActivityListenCheckin = enum.New(ActivityType(KindListenCheckin))
	ActivityWatchCheckin  = enum.New(ActivityType(KindWatchCheckin))
	ActivityGameCheckin   = enum.New(ActivityType(KindGameCheckin))
)

// Activity is a feed-visible record pointing at a piece of user-generated
// content (or at a Follow row for follow activities). Every persisted
// top-level content item has exactly one Activity until either is deleted.
type Activity struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ActivityType ActivityType `gorm:"size:32"`

	// For follow activities Kind is empty and ObjectID references the
	// Follow row.
	ContentRef `gorm:"embedded"`
}
