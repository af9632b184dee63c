package entity

type Follow struct {
	NumericBase

	FollowerID string `gorm:"uniqueIndex:idx_follows_pair"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	FollowedID string `gorm:"uniqueIndex:idx_follows_pair"`
	Followed   User   `gorm:"foreignKey:FollowedID"`
}

type Block struct {
	NumericBase

	BlockerID string `gorm:"uniqueIndex:idx_blocks_pair"`
	Blocker   User   `gorm:"foreignKey:BlockerID"`

	BlockedID string `gorm:"uniqueIndex:idx_blocks_pair"`
	Blocked   User   `gorm:"foreignKey:BlockedID"`
}
