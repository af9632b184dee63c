package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/luvlist-lab/backend/pkg/xredis"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	GetListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]entity.Notification, error)
	UpdateMessage(ctx context.Context, id int64, message string) error
	MarkRead(ctx context.Context, recipientID string, id int64) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID string, id int64) error
	DeleteAll(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)

	IsMuted(ctx context.Context, userID string, ref entity.ContentRef) (bool, error)
	Mute(ctx context.Context, userID string, ref entity.ContentRef) error
	Unmute(ctx context.Context, userID string, ref entity.ContentRef) error
	DeleteMutedByRef(ctx context.Context, ref entity.ContentRef) error
}

type notificationRepository struct {
	redisClient xredis.Client
}

func NewNotificationRepository(redisClient xredis.Client) *notificationRepository {
	return &notificationRepository{redisClient: redisClient}
}

func unreadKey(recipientID string) string {
	return fmt.Sprintf("unread_notifications:%s", recipientID)
}

// invalidateUnread drops the cached unread counter. The next CountUnread
// recomputes it from the database.
func (r *notificationRepository) invalidateUnread(ctx context.Context, recipientID string) {
	if r.redisClient == nil {
		return
	}

	if err := r.redisClient.Del(ctx, unreadKey(recipientID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate unread counter: %v", err)
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if err := xcontext.DB(ctx).Create(notification).Error; err != nil {
		return err
	}

	r.invalidateUnread(ctx, notification.RecipientID)
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	var record entity.Notification
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *notificationRepository) GetListByRecipient(
	ctx context.Context, recipientID string, offset, limit int,
) ([]entity.Notification, error) {
	var records []entity.Notification
	err := xcontext.DB(ctx).
		Where("recipient_id=?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *notificationRepository) UpdateMessage(ctx context.Context, id int64, message string) error {
	return xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("id=?", id).
		Update("message", message).Error
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID string, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("id=? AND recipient_id=?", id, recipientID).
		Update("read", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return errors.New("notification not found")
	}

	r.invalidateUnread(ctx, recipientID)
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("recipient_id=? AND read=?", recipientID, false).
		Update("read", true).Error
	if err != nil {
		return err
	}

	r.invalidateUnread(ctx, recipientID)
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID string, id int64) error {
	tx := xcontext.DB(ctx).
		Where("id=? AND recipient_id=?", id, recipientID).
		Delete(&entity.Notification{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return errors.New("notification not found")
	}

	r.invalidateUnread(ctx, recipientID)
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, recipientID string) error {
	err := xcontext.DB(ctx).
		Where("recipient_id=?", recipientID).
		Delete(&entity.Notification{}).Error
	if err != nil {
		return err
	}

	r.invalidateUnread(ctx, recipientID)
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, unreadKey(recipientID))
		if err == nil {
			var count int64
			if _, scanErr := fmt.Sscanf(cached, "%d", &count); scanErr == nil {
				return count, nil
			}
		} else if !errors.Is(err, xredis.ErrNil) {
			xcontext.Logger(ctx).Warnf("Cannot read unread counter: %v", err)
		}
	}

	var count int64
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("recipient_id=? AND read=?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redisClient != nil {
		if err := r.redisClient.Set(ctx, unreadKey(recipientID), fmt.Sprintf("%d", count)); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache unread counter: %v", err)
		}
	}

	return count, nil
}

func (r *notificationRepository) IsMuted(ctx context.Context, userID string, ref entity.ContentRef) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.MutedNotification{}).
		Where("user_id=? AND kind=? AND object_id=?", userID, ref.Kind, ref.ObjectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *notificationRepository) Mute(ctx context.Context, userID string, ref entity.ContentRef) error {
	muted := &entity.MutedNotification{UserID: userID, Kind: ref.Kind, ObjectID: ref.ObjectID}
	return xcontext.DB(ctx).Create(muted).Error
}

func (r *notificationRepository) Unmute(ctx context.Context, userID string, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND kind=? AND object_id=?", userID, ref.Kind, ref.ObjectID).
		Delete(&entity.MutedNotification{}).Error
}

func (r *notificationRepository) DeleteMutedByRef(ctx context.Context, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Delete(&entity.MutedNotification{}).Error
}
