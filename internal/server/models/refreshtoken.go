package models

import "time"

// RefreshToken is a server-stored long-lived token used to mint new access
// tokens without re-sending credentials.
type RefreshToken struct {
	Token   string    `bson:"token"`
	UserID  string    `bson:"userId"`
	Expires time.Time `bson:"expiresAt"`
}
