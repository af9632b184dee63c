package domain

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type NotificationDomain interface {
	GetList(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	MarkRead(context.Context, *model.MarkNotificationReadRequest) (*model.MarkNotificationReadResponse, error)
	MarkAllRead(context.Context, *model.MarkAllNotificationsReadRequest) (*model.MarkAllNotificationsReadResponse, error)
	Delete(context.Context, *model.DeleteNotificationRequest) (*model.DeleteNotificationResponse, error)
	DeleteAll(context.Context, *model.DeleteAllNotificationsRequest) (*model.DeleteAllNotificationsResponse, error)
	ToggleMute(context.Context, *model.ToggleMuteRequest) (*model.ToggleMuteResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationDomain(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *notificationDomain {
	return &notificationDomain{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (d *notificationDomain) GetList(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 1 and %d", apiCfg.MaxLimit)
	}

	notifications, err := d.notificationRepo.GetListByRecipient(ctx, requestUserID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	senderIDs := []string{}
	for i := range notifications {
		senderIDs = append(senderIDs, notifications[i].SenderID)
	}

	senders, err := d.userRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notification senders: %v", err)
		return nil, errorx.Unknown
	}

	senderMap := map[string]*entity.User{}
	for i := range senders {
		senderMap[senders[i].ID] = &senders[i]
	}

	clientNotifications := []model.Notification{}
	for i := range notifications {
		clientNotifications = append(clientNotifications,
			model.ConvertNotification(&notifications[i], senderMap[notifications[i].SenderID]))
	}

	unread, err := d.notificationRepo.CountUnread(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetNotificationsResponse{
		Notifications: clientNotifications,
		UnreadCount:   unread,
	}, nil
}

func (d *notificationDomain) MarkRead(
	ctx context.Context, req *model.MarkNotificationReadRequest,
) (*model.MarkNotificationReadResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.notificationRepo.MarkRead(ctx, requestUserID, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot mark notification read: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found notification")
	}

	return &model.MarkNotificationReadResponse{}, nil
}

func (d *notificationDomain) MarkAllRead(
	ctx context.Context, req *model.MarkAllNotificationsReadRequest,
) (*model.MarkAllNotificationsReadResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.notificationRepo.MarkAllRead(ctx, requestUserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkAllNotificationsReadResponse{}, nil
}

func (d *notificationDomain) Delete(
	ctx context.Context, req *model.DeleteNotificationRequest,
) (*model.DeleteNotificationResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.notificationRepo.Delete(ctx, requestUserID, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete notification: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found notification")
	}

	return &model.DeleteNotificationResponse{}, nil
}

func (d *notificationDomain) DeleteAll(
	ctx context.Context, req *model.DeleteAllNotificationsRequest,
) (*model.DeleteAllNotificationsResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.notificationRepo.DeleteAll(ctx, requestUserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete notifications: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteAllNotificationsResponse{}, nil
}

// ToggleMute flips the mute state of one subject for the requesting user
// and reports the new state.
func (d *notificationDomain) ToggleMute(
	ctx context.Context, req *model.ToggleMuteRequest,
) (*model.ToggleMuteResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	muted, err := d.notificationRepo.IsMuted(ctx, requestUserID, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check mute: %v", err)
		return nil, errorx.Unknown
	}

	if muted {
		if err := d.notificationRepo.Unmute(ctx, requestUserID, ref); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unmute: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ToggleMuteResponse{Muted: false}, nil
	}

	if err := d.notificationRepo.Mute(ctx, requestUserID, ref); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mute: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleMuteResponse{Muted: true}, nil
}
