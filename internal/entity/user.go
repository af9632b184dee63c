package entity

import (
	"database/sql"
	"time"
)

type User struct {
	Base
	Handle      string `gorm:"unique"`
	DisplayName string
	Bio         string
	IsPublic    bool
	Timezone    string `gorm:"default:UTC"`

	InvitedBy     sql.NullString
	InvitedByUser *User `gorm:"foreignKey:InvitedBy"`

	IsDeactivated bool
	DeactivatedAt sql.NullTime
}

// Name returns the display name when set, falling back to the handle. The
// result is what notification messages show after the "@".
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}

	return u.Handle
}

// InvitationCode gates registration. The code string is generated randomly
// and retried on collision.
type InvitationCode struct {
	NumericBase
	Code   string `gorm:"unique;size:16"`
	IsUsed bool

	GeneratedBy     sql.NullString
	GeneratedByUser *User `gorm:"foreignKey:GeneratedBy"`

	UsedAt sql.NullTime
}

func (c *InvitationCode) MarkUsed(now time.Time) {
	c.IsUsed = true
	c.UsedAt = sql.NullTime{Time: now, Valid: true}
}
