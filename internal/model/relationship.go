package model

type FollowUserRequest struct {
	UserID string `json:"user_id"`
}

type FollowUserResponse struct{}

type UnfollowUserRequest struct {
	UserID string `json:"user_id"`
}

type UnfollowUserResponse struct{}

type BlockUserRequest struct {
	UserID string `json:"user_id"`
}

type BlockUserResponse struct{}

type UnblockUserRequest struct {
	UserID string `json:"user_id"`
}

type UnblockUserResponse struct{}

type GetFollowingRequest struct{}

type GetFollowingResponse struct {
	Users []ShortUser `json:"users"`
}

type GetFollowersRequest struct{}

type GetFollowersResponse struct {
	Users []ShortUser `json:"users"`
}
