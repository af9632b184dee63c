package entity

import "github.com/luvlist-lab/backend/pkg/enum"

type NotificationType string

var (
	NotificationComment              = enum.New(NotificationType("comment"))
	NotificationMention              = enum.New(NotificationType("mention"))
	NotificationRepost               = enum.New(NotificationType("repost"))
	NotificationFollow               = enum.New(NotificationType("follow"))
	NotificationDelete               = enum.New(NotificationType("delete"))
	NotificationCommentOnDeleted     = enum.New(NotificationType("comment_on_deleted"))
	NotificationCommentDeletedByUser = enum.New(NotificationType("comment_deleted_by_user"))
)

// Notification is created once and can only transition to read. The
// message is rendered HTML; for comment/repost/mention notifications the
// embedded link carries a ?mark_read=<id> marker, which forces a second
// save after the id is known.
type Notification struct {
	NumericBase

	RecipientID string `gorm:"index"`
	Recipient   User   `gorm:"foreignKey:RecipientID"`

	SenderID string
	Sender   User `gorm:"foreignKey:SenderID"`

	// Subject is empty for deletion notifications, whose subject no longer
	// exists by the time the recipient reads them.
	Subject ContentRef `gorm:"embedded;embeddedPrefix:subject_"`

	Type    NotificationType `gorm:"size:32"`
	Message string
	Read    bool
}

// MutedNotification suppresses future notifications about one subject for
// one user.
type MutedNotification struct {
	NumericBase

	UserID string `gorm:"uniqueIndex:idx_muted_notifications_triple"`
	User   User   `gorm:"foreignKey:UserID"`

	Kind     ContentKind `gorm:"size:32;uniqueIndex:idx_muted_notifications_triple"`
	ObjectID int64       `gorm:"uniqueIndex:idx_muted_notifications_triple"`
}

func (m *MutedNotification) Ref() ContentRef {
	return NewContentRef(m.Kind, m.ObjectID)
}
