package entity

// BlueskyAccount links a user to a Bluesky identity. The app password is
// encrypted at rest and decrypted only when a mirror call is made.
type BlueskyAccount struct {
	NumericBase

	UserID string `gorm:"uniqueIndex"`
	User   User   `gorm:"foreignKey:UserID"`

	Handle            string `gorm:"unique;size:100"`
	PdsURL            string `gorm:"size:255"`
	EncryptedPassword string `gorm:"size:512"`
}

// MastodonAccount links a user to a Mastodon identity.
type MastodonAccount struct {
	NumericBase

	UserID string `gorm:"uniqueIndex"`
	User   User   `gorm:"foreignKey:UserID"`

	Handle               string `gorm:"unique;size:100"`
	EncryptedAccessToken string `gorm:"size:512"`
}
