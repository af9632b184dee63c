package entity

import (
	"context"

	"github.com/luvlist-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&InvitationCode{},
		&Follow{},
		&Block{},
		&Activity{},
		&Post{},
		&Say{},
		&SayAudience{},
		&Pin{},
		&Repost{},
		&Checkin{},
		&Comment{},
		&Tag{},
		&ContentTag{},
		&Vote{},
		&Notification{},
		&MutedNotification{},
		&LuvList{},
		&ContentInList{},
		&Randomizer{},
		&BlueskyAccount{},
		&MastodonAccount{},
	)
}
