package model

type GetNotificationsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

type MarkNotificationReadRequest struct {
	ID int64 `json:"id"`
}

type MarkNotificationReadResponse struct{}

type MarkAllNotificationsReadRequest struct{}

type MarkAllNotificationsReadResponse struct{}

type DeleteNotificationRequest struct {
	ID int64 `json:"id"`
}

type DeleteNotificationResponse struct{}

type DeleteAllNotificationsRequest struct{}

type DeleteAllNotificationsResponse struct{}

type ToggleMuteRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type ToggleMuteResponse struct {
	Muted bool `json:"muted"`
}
