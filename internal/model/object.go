package model

type AccessToken struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type User struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	IsPublic    bool   `json:"is_public"`
	Timezone    string `json:"timezone"`
	CreatedAt   string `json:"created_at"`
}

type ShortUser struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

type Content struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`

	User      ShortUser `json:"user"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Body      string    `json:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt string    `json:"created_at"`
}

type Activity struct {
	ID           int64   `json:"id"`
	ActivityType string  `json:"activity_type"`
	User         ShortUser `json:"user"`
	Content      Content `json:"content"`
	CreatedAt    string  `json:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	User      ShortUser `json:"user"`
	Content   string    `json:"content"`
	Anchor    string    `json:"anchor"`
	CreatedAt string    `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Sender    ShortUser `json:"sender"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt string    `json:"created_at"`
}

type LuvList struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

type ListItem struct {
	ID       int64  `json:"id"`
	Order    int    `json:"order"`
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
	Comment  string `json:"comment"`
}
