package user

import (
	"time"
)

// User represents an authenticated identity. The same struct doubles as the
// session payload persisted in the durable session store; the password hash
// is never serialized into the session blob.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:200" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Avatar       string    `gorm:"size:500" json:"avatar,omitempty"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims represents the identity carried by a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
