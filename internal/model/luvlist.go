package model

type CreateLuvListRequest struct {
	Title  string `json:"title"`
	Notes  string `json:"notes"`
	Source string `json:"source"`
}

type CreateLuvListResponse struct {
	ID int64 `json:"id"`
}

type GetLuvListRequest struct {
	ID int64 `json:"id"`
}

type GetLuvListResponse struct {
	LuvList LuvList    `json:"luv_list"`
	Items   []ListItem `json:"items"`
}

type GetMyLuvListsRequest struct{}

type GetMyLuvListsResponse struct {
	LuvLists []LuvList `json:"luv_lists"`
}

type UpdateLuvListRequest struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Notes  string `json:"notes"`
	Source string `json:"source"`
}

type UpdateLuvListResponse struct{}

type DeleteLuvListRequest struct {
	ID int64 `json:"id"`
}

type DeleteLuvListResponse struct{}

type AddLuvListItemRequest struct {
	LuvListID int64  `json:"luv_list_id"`
	Kind      string `json:"kind"`
	ObjectID  int64  `json:"object_id"`
	Order     int    `json:"order"`
	Comment   string `json:"comment"`
}

type AddLuvListItemResponse struct {
	ID int64 `json:"id"`
}

type RemoveLuvListItemRequest struct {
	LuvListID int64 `json:"luv_list_id"`
	ItemID    int64 `json:"item_id"`
}

type RemoveLuvListItemResponse struct{}

type GetRandomItemRequest struct {
	LuvListID int64 `json:"luv_list_id"`
}

type GetRandomItemResponse struct {
	Item ListItem `json:"item"`
}
