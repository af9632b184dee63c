package entity

import "github.com/luvlist-lab/backend/pkg/enum"

// CheckinMedium discriminates check-ins by the media they track.
type CheckinMedium string

var (
	MediumRead   = enum.New(CheckinMedium("read"))
	MediumListen = enum.New(CheckinMedium("listen"))
	MediumWatch  = enum.New(CheckinMedium("watch"))
	MediumGame   = enum.New(CheckinMedium("game"))
)

// Kind maps a medium to its content kind tag.
func (m CheckinMedium) Kind() ContentKind {
	return ContentKind(string(m) + "_checkin")
}

// Checkin records progress or status against an external media item (a
// book, an album, a movie, a game).
type Checkin struct {
	NumericBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Medium CheckinMedium `gorm:"size:16;index"`

	// MediaID identifies the catalogued item the check-in is about.
	MediaID int64

	Status   string `gorm:"size:32"`
	Progress string `gorm:"size:64"`
	Content  string

	CommentsEnabled bool `gorm:"default:true"`
	ShareToFeed     bool `gorm:"default:true"`
}

func (c *Checkin) Ref() ContentRef {
	return NewContentRef(c.Medium.Kind(), c.ID)
}
