package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a credential record. Username is unique (enforced by a storage
// level index, not by a read-then-write check). PasswordHash is a bcrypt
// hash; the plaintext is never stored.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty"`
}
