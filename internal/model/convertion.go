package model

import (
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:          user.ID,
		Handle:      user.Handle,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		IsPublic:    user.IsPublic,
		Timezone:    user.Timezone,
		CreatedAt:   user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:     user.ID,
		Handle: user.Handle,
		Name:   user.Name(),
	}
}

func ConvertShortUsers(users []entity.User) []ShortUser {
	shortUsers := []ShortUser{}
	for i := range users {
		shortUsers = append(shortUsers, ConvertShortUser(&users[i]))
	}

	return shortUsers
}

func ConvertComment(comment *entity.Comment, author *entity.User) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:        comment.ID,
		User:      ConvertShortUser(author),
		Content:   comment.Content,
		Anchor:    comment.Anchor,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNotification(notification *entity.Notification, sender *entity.User) Notification {
	if notification == nil {
		return Notification{}
	}

	return Notification{
		ID:        notification.ID,
		Sender:    ConvertShortUser(sender),
		Type:      string(notification.Type),
		Message:   notification.Message,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertLuvList(list *entity.LuvList) LuvList {
	if list == nil {
		return LuvList{}
	}

	return LuvList{
		ID:        list.ID,
		UserID:    list.UserID,
		Title:     list.Title,
		Notes:     list.Notes,
		Source:    list.Source,
		CreatedAt: list.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertListItem(item *entity.ContentInList) ListItem {
	if item == nil {
		return ListItem{}
	}

	return ListItem{
		ID:       item.ID,
		Order:    item.Order,
		Kind:     string(item.Item.Kind),
		ObjectID: item.Item.ObjectID,
		Comment:  item.Comment,
	}
}
