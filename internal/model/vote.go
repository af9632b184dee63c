package model

type VoteRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
	Value    int    `json:"value"`
}

type VoteResponse struct {
	Score int64 `json:"score"`
}

type UnvoteRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type UnvoteResponse struct {
	Score int64 `json:"score"`
}

type GetScoreRequest struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
}

type GetScoreResponse struct {
	Score int64 `json:"score"`
}

type RatedContent struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
	Score    int64  `json:"score"`
}

type GetTopRatedRequest struct {
	Kind  string `json:"kind"`
	Limit int    `json:"limit"`
}

type GetTopRatedResponse struct {
	Records []RatedContent `json:"records"`
}
