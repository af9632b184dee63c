package model

type CreatePostRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type CreatePostResponse struct {
	ID int64 `json:"id"`
}

type UpdatePostRequest struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type UpdatePostResponse struct{}

type DeleteContentRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type DeleteContentResponse struct{}

type GetContentRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type GetContentResponse Content

type CreateSayRequest struct {
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type CreateSayResponse struct {
	ID              int64 `json:"id"`
	IsDirectMention bool  `json:"is_direct_mention"`
}

type UpdateSayRequest struct {
	ID              int64  `json:"id"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type UpdateSayResponse struct{}

type CreatePinRequest struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type CreatePinResponse struct {
	ID int64 `json:"id"`
}

type UpdatePinRequest struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
}

type UpdatePinResponse struct{}

type CreateRepostRequest struct {
	ActivityID int64  `json:"activity_id"`
	RepostID   int64  `json:"repost_id"`
	Content    string `json:"content"`
}

type CreateRepostResponse struct {
	ID int64 `json:"id"`
}

type CreateCheckinRequest struct {
	Medium          string `json:"medium"`
	MediaID         int64  `json:"media_id"`
	Status          string `json:"status"`
	Progress        string `json:"progress"`
	Content         string `json:"content"`
	CommentsEnabled bool   `json:"comments_enabled"`
	ShareToFeed     bool   `json:"share_to_feed"`
}

type CreateCheckinResponse struct {
	ID int64 `json:"id"`
}

type UpdateCheckinRequest struct {
	ID       int64  `json:"id"`
	Medium   string `json:"medium"`
	Status   string `json:"status"`
	Progress string `json:"progress"`
	Content  string `json:"content"`
}

type UpdateCheckinResponse struct{}

type CreateCommentRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
	Content  string `json:"content"`
}

type CreateCommentResponse struct {
	ID     int64  `json:"id"`
	Anchor string `json:"anchor"`
}

type GetCommentsRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type DeleteCommentRequest struct {
	ID int64 `json:"id"`
}

type DeleteCommentResponse struct{}
