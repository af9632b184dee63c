package model

type GetFeedRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetFeedResponse struct {
	Activities []Activity `json:"activities"`
}

type DeleteActivityRequest struct {
	ID int64 `json:"id"`
}

type DeleteActivityResponse struct{}
